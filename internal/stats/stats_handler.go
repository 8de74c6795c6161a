package stats

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

func (h *Handler) DepartmentStatistics(c *gin.Context) {
	resp, err := h.service.DepartmentStatistics(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) TotalExpenditure(c *gin.Context) {
	total, err := h.service.TotalExpenditure(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"total_expenditure": total})
}
