package salary

import (
	"go-empms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	salaries := r.Group("/salaries")
	{
		salaries.POST("/create",
			middleware.RateLimitByIP(1, 5),
			handler.Create,
		)
		salaries.POST("/increment",
			middleware.RateLimitByIP(1, 5),
			handler.ProcessIncrement,
		)
		salaries.PUT("/update/:id",
			middleware.RateLimitByIP(1, 5),
			handler.Update,
		)
		salaries.DELETE("/delete/:id",
			middleware.RateLimitByIP(0.5, 2),
			handler.Delete,
		)

		salaries.GET("/all", handler.GetAll)
		salaries.GET("/current", handler.GetAllCurrent)
		salaries.GET("/date-range", handler.GetInDateRange)
		salaries.GET("/employee/:employeeId/history", handler.GetHistory)
		salaries.GET("/employee/:employeeId/current", handler.GetCurrentByEmployee)
		salaries.GET("/department/:department", handler.GetByDepartment)
		salaries.GET("/type/:type", handler.GetByType)
		salaries.GET("/:id", handler.GetByID)
	}
}
