package employee

import (
	"go-empms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	{
		employees.POST("/add",
			middleware.RateLimitByIP(1, 5),
			handler.Create,
		)
		employees.GET("/all", handler.GetAll)
		employees.GET("/:id", handler.GetByID)
		employees.PUT("/update/:id",
			middleware.RateLimitByIP(1, 5),
			handler.Update,
		)
		employees.DELETE("/delete/:id",
			middleware.RateLimitByIP(0.5, 2),
			handler.Delete,
		)
	}
}
