package handler

import (
	"net/http"

	"wapprove/internal/middleware"
	"wapprove/internal/model"
	"wapprove/internal/service"
	"wapprove/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApproverHandler struct {
	approverService service.ApproverService
}

func NewApproverHandler(approverService service.ApproverService) *ApproverHandler {
	return &ApproverHandler{approverService: approverService}
}

func (h *ApproverHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvers := router.Group("/approvers")
	{
		approvers.GET("", middleware.RequireRole(), h.List)
		approvers.GET("/:id", middleware.RequireRole(), h.GetByID)
		approvers.POST("", middleware.RequireRole(model.RoleAdmin), h.Create)
		approvers.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
		approvers.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}

	router.GET("/departments/:id/approvers", middleware.RequireRole(), h.ListByDepartment)
}

// Create handles POST /approvers
// @Summary      Register an approver
// @Description  Adds a user to a department's approval chain at a given level
// @Tags         approvers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateApproverDTO  true  "Create Approver Payload"
// @Success      201      {object}  response.Response{data=model.Approver}
// @Failure      400      {object}  response.Response
// @Router       /approvers [post]
func (h *ApproverHandler) Create(c *gin.Context) {
	var req service.CreateApproverDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	approver, err := h.approverService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, approver))
}

// List handles GET /approvers
// @Summary      List approvers
// @Tags         approvers
// @Produce      json
// @Security     BearerAuth
// @Param        department_id   query     string  false  "Filter by department"
// @Param        approver_type   query     string  false  "Filter by approver type"
// @Param        approval_level  query     int     false  "Filter by level"
// @Param        page            query     int     false  "Page number"
// @Param        limit           query     int     false  "Page size"
// @Success      200  {object}  response.Response{data=[]model.Approver}
// @Router       /approvers [get]
func (h *ApproverHandler) List(c *gin.Context) {
	var req service.ApproverFilterDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters"))
		return
	}

	approvers, total, err := h.approverService.List(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	meta := response.NewPaginationMeta(req.Page, req.Limit, total)
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, approvers, meta))
}

// GetByID handles GET /approvers/:id
// @Summary      Get approver by ID
// @Tags         approvers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Approver ID"
// @Success      200  {object}  response.Response{data=model.Approver}
// @Failure      404  {object}  response.Response
// @Router       /approvers/{id} [get]
func (h *ApproverHandler) GetByID(c *gin.Context) {
	approver, err := h.approverService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, approver))
}

// ListByDepartment handles GET /departments/:id/approvers
// @Summary      List a department's approvers in chain order
// @Tags         approvers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response{data=[]model.Approver}
// @Failure      404  {object}  response.Response
// @Router       /departments/{id}/approvers [get]
func (h *ApproverHandler) ListByDepartment(c *gin.Context) {
	approvers, err := h.approverService.ListByDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, approvers))
}

// Update handles PUT /approvers/:id
// @Summary      Update approver
// @Tags         approvers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Approver ID"
// @Param        payload  body      service.UpdateApproverDTO  true  "Update Approver Payload"
// @Success      200      {object}  response.Response{data=model.Approver}
// @Failure      400      {object}  response.Response
// @Router       /approvers/{id} [put]
func (h *ApproverHandler) Update(c *gin.Context) {
	var req service.UpdateApproverDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	approver, err := h.approverService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, approver))
}

// Delete handles DELETE /approvers/:id
// @Summary      Remove approver from chain
// @Tags         approvers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Approver ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /approvers/{id} [delete]
func (h *ApproverHandler) Delete(c *gin.Context) {
	if err := h.approverService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Approver deleted"}))
}
