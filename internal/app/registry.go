package app

import (
	"database/sql"

	"go-empms/internal/employee"
	"go-empms/internal/messaging/kafka"
	"go-empms/internal/middleware"
	"go-empms/internal/salary"
	"go-empms/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo)
	salaryService := salary.NewServiceWithOutbox(db, salaryRepo, employeeRepo, outboxRepo)
	statsService := stats.NewService(salaryRepo, rdb)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	salaryHandler := salary.NewHandler(salaryService)
	statsHandler := stats.NewHandler(statsService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		salary.RegisterRoutes(api, salaryHandler)
		stats.RegisterRoutes(api, statsHandler)
	}
}
