package salary

import (
	"net/http"

	"go-empms/internal/shared/apperror"
	"go-empms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindingError(c *gin.Context, err error) {
	mapped := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetAllCurrent(c *gin.Context) {
	resp, err := h.service.GetAllCurrent(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetHistory(c *gin.Context) {
	resp, err := h.service.GetHistory(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetCurrentByEmployee(c *gin.Context) {
	resp, err := h.service.GetCurrentByEmployee(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) ProcessIncrement(c *gin.Context) {
	var req SalaryIncrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.ProcessIncrement(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetByDepartment(c *gin.Context) {
	resp, err := h.service.GetByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetByType(c *gin.Context) {
	resp, err := h.service.GetByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetInDateRange(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput,
			"startDate and endDate query parameters are required", nil)
		return
	}

	resp, err := h.service.GetInDateRange(c.Request.Context(), startDate, endDate)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Salary record deleted successfully"})
}
