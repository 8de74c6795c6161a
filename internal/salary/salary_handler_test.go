package salary_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-empms/internal/salary"
	salaryerrors "go-empms/internal/salary/errors"
	"go-empms/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeSalaryService struct {
	createFn               func(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error)
	updateFn               func(ctx context.Context, id string, req salary.UpdateSalaryRequest) (salary.SalaryResponse, error)
	getByIDFn              func(ctx context.Context, id string) (salary.SalaryResponse, error)
	getAllFn               func(ctx context.Context) ([]salary.SalaryResponse, error)
	getAllCurrentFn        func(ctx context.Context) ([]salary.SalaryResponse, error)
	getCurrentByEmployeeFn func(ctx context.Context, employeeID string) (salary.SalaryResponse, error)
	getHistoryFn           func(ctx context.Context, employeeID string) (salary.SalaryHistoryResponse, error)
	getByDepartmentFn      func(ctx context.Context, department string) ([]salary.SalaryResponse, error)
	getInDateRangeFn       func(ctx context.Context, startDate, endDate string) ([]salary.SalaryResponse, error)
	getByTypeFn            func(ctx context.Context, salaryType string) ([]salary.SalaryResponse, error)
	processIncrementFn     func(ctx context.Context, req salary.SalaryIncrementRequest) (salary.SalaryResponse, error)
	deleteFn               func(ctx context.Context, id string) error
}

func (f *fakeSalaryService) Create(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeSalaryService) Update(ctx context.Context, id string, req salary.UpdateSalaryRequest) (salary.SalaryResponse, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeSalaryService) GetByID(ctx context.Context, id string) (salary.SalaryResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeSalaryService) GetAll(ctx context.Context) ([]salary.SalaryResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeSalaryService) GetAllCurrent(ctx context.Context) ([]salary.SalaryResponse, error) {
	return f.getAllCurrentFn(ctx)
}

func (f *fakeSalaryService) GetCurrentByEmployee(ctx context.Context, employeeID string) (salary.SalaryResponse, error) {
	return f.getCurrentByEmployeeFn(ctx, employeeID)
}

func (f *fakeSalaryService) GetHistory(ctx context.Context, employeeID string) (salary.SalaryHistoryResponse, error) {
	return f.getHistoryFn(ctx, employeeID)
}

func (f *fakeSalaryService) GetByDepartment(ctx context.Context, department string) ([]salary.SalaryResponse, error) {
	return f.getByDepartmentFn(ctx, department)
}

func (f *fakeSalaryService) GetInDateRange(ctx context.Context, startDate, endDate string) ([]salary.SalaryResponse, error) {
	return f.getInDateRangeFn(ctx, startDate, endDate)
}

func (f *fakeSalaryService) GetByType(ctx context.Context, salaryType string) ([]salary.SalaryResponse, error) {
	return f.getByTypeFn(ctx, salaryType)
}

func (f *fakeSalaryService) ProcessIncrement(ctx context.Context, req salary.SalaryIncrementRequest) (salary.SalaryResponse, error) {
	return f.processIncrementFn(ctx, req)
}

func (f *fakeSalaryService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func setupHandlerTest(svc salary.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := salary.NewHandler(svc)

	api := router.Group("/api/v1/salaries")
	api.POST("/create", handler.Create)
	api.GET("/:id", handler.GetByID)
	api.GET("/employee/:employeeId/history", handler.GetHistory)
	api.POST("/increment", handler.ProcessIncrement)
	api.PUT("/update/:id", handler.Update)
	api.GET("/date-range", handler.GetInDateRange)
	api.DELETE("/delete/:id", handler.Delete)
	return router
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestSalaryHandler_Create(t *testing.T) {
	t.Run("created record is wrapped in the success envelope", func(t *testing.T) {
		svc := &fakeSalaryService{
			createFn: func(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error) {
				assert.Equal(t, "2024-07-01", req.EffectiveDate)
				return salary.SalaryResponse{
					ID:      uuid.NewString(),
					Amount:  60000,
					Message: "Salary record created successfully",
				}, nil
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodPost, "/api/v1/salaries/create", gin.H{
			"employee_id":    uuid.NewString(),
			"amount":         60000,
			"effective_date": "2024-07-01",
			"salary_type":    "INCREMENT",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, true, envelope["ok"])
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "Salary record created successfully", data["message"])
	})

	t.Run("missing required fields fail binding", func(t *testing.T) {
		svc := &fakeSalaryService{
			createFn: func(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return salary.SalaryResponse{}, nil
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodPost, "/api/v1/salaries/create", gin.H{
			"amount": 60000,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, false, envelope["ok"])
	})

	t.Run("service errors keep their status and code", func(t *testing.T) {
		svc := &fakeSalaryService{
			createFn: func(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error) {
				return salary.SalaryResponse{}, salaryerrors.ErrNoSalaryAmount
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodPost, "/api/v1/salaries/create", gin.H{
			"employee_id":    uuid.NewString(),
			"effective_date": "2024-07-01",
			"salary_type":    "BASE_SALARY",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		errBody := envelope["error"].(map[string]any)
		assert.Equal(t, apperror.CodeInvalidInput, errBody["code"])
		assert.Equal(t, "No valid salary amount provided", errBody["message"])
	})
}

func TestSalaryHandler_ProcessIncrement(t *testing.T) {
	t.Run("invalid increment input maps to 400", func(t *testing.T) {
		svc := &fakeSalaryService{
			processIncrementFn: func(ctx context.Context, req salary.SalaryIncrementRequest) (salary.SalaryResponse, error) {
				return salary.SalaryResponse{}, salaryerrors.ErrIncrementValueRequired
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodPost, "/api/v1/salaries/increment", gin.H{
			"employee_id":    uuid.NewString(),
			"effective_date": "2024-07-01",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		errBody := envelope["error"].(map[string]any)
		assert.Equal(t, "Increment amount or percentage required", errBody["message"])
	})

	t.Run("successful increment responds 201", func(t *testing.T) {
		svc := &fakeSalaryService{
			processIncrementFn: func(ctx context.Context, req salary.SalaryIncrementRequest) (salary.SalaryResponse, error) {
				assert.NotNil(t, req.IncrementPercentage)
				return salary.SalaryResponse{Amount: 55000, SalaryType: "INCREMENT"}, nil
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodPost, "/api/v1/salaries/increment", gin.H{
			"employee_id":          uuid.NewString(),
			"increment_percentage": 10,
			"effective_date":       "2024-07-01",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestSalaryHandler_GetHistory(t *testing.T) {
	t.Run("missing history maps to 404", func(t *testing.T) {
		employeeID := uuid.NewString()
		svc := &fakeSalaryService{
			getHistoryFn: func(ctx context.Context, id string) (salary.SalaryHistoryResponse, error) {
				assert.Equal(t, employeeID, id)
				return salary.SalaryHistoryResponse{}, apperror.NotFoundf("No salary history found for employee id: %s", id)
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodGet, "/api/v1/salaries/employee/"+employeeID+"/history", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		envelope := decodeEnvelope(t, rec)
		errBody := envelope["error"].(map[string]any)
		assert.Equal(t, apperror.CodeNotFound, errBody["code"])
	})
}

func TestSalaryHandler_GetInDateRange(t *testing.T) {
	t.Run("both query parameters are required", func(t *testing.T) {
		svc := &fakeSalaryService{
			getInDateRangeFn: func(ctx context.Context, startDate, endDate string) ([]salary.SalaryResponse, error) {
				t.Fatal("service must not be called without both dates")
				return nil, nil
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodGet, "/api/v1/salaries/date-range?startDate=2024-01-01", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dates are forwarded untouched", func(t *testing.T) {
		svc := &fakeSalaryService{
			getInDateRangeFn: func(ctx context.Context, startDate, endDate string) ([]salary.SalaryResponse, error) {
				assert.Equal(t, "2024-01-01", startDate)
				assert.Equal(t, "2024-12-31", endDate)
				return []salary.SalaryResponse{}, nil
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodGet, "/api/v1/salaries/date-range?startDate=2024-01-01&endDate=2024-12-31", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSalaryHandler_Delete(t *testing.T) {
	t.Run("returns a confirmation message", func(t *testing.T) {
		id := uuid.NewString()
		svc := &fakeSalaryService{
			deleteFn: func(ctx context.Context, got string) error {
				assert.Equal(t, id, got)
				return nil
			},
		}
		router := setupHandlerTest(svc)

		rec := performJSON(router, http.MethodDelete, "/api/v1/salaries/delete/"+id, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		envelope := decodeEnvelope(t, rec)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "Salary record deleted successfully", data["message"])
	})
}
