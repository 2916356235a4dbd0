package handler

import (
	"fmt"
	"net/http"

	"wapprove/internal/middleware"
	"wapprove/internal/service"
	"wapprove/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports/requests", middleware.RequireRole(), h.ExportRequests)
}

// ExportRequests handles GET /reports/requests
// @Summary      Export requests to Excel
// @Description  Exports the requests visible to the caller, honoring the same filters as the list endpoint
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        department_id  query     string  false  "Filter by department"
// @Param        status         query     string  false  "Filter by status"
// @Param        start_date     query     string  false  "Request date lower bound"
// @Param        end_date       query     string  false  "Request date upper bound"
// @Success      200  {file}    binary
// @Failure      400  {object}  response.Response
// @Router       /reports/requests [get]
func (h *ReportHandler) ExportRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.QueryRequestDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters"))
		return
	}

	data, filename, err := h.reportService.ExportRequests(c.Request.Context(), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
