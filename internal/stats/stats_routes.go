package stats

import (
	"github.com/gin-gonic/gin"
)

// Statistics live under the salaries prefix: they are read models over
// the same current records the salary endpoints expose.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	salaries := r.Group("/salaries")
	{
		salaries.GET("/statistics/department", handler.DepartmentStatistics)
		salaries.GET("/total-expenditure", handler.TotalExpenditure)
	}
}
