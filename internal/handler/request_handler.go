package handler

import (
	"net/http"

	"wapprove/internal/middleware"
	"wapprove/internal/model"
	"wapprove/internal/service"
	"wapprove/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests", middleware.RequireRole())
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.GET("/:id", h.GetByID)
		requests.GET("/:id/logs", h.Logs)
		requests.PUT("/:id", h.Update)
		requests.DELETE("/:id", h.Delete)

		requests.POST("/:id/submit", h.Submit)
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
		requests.POST("/:id/cancel", h.Cancel)
		requests.POST("/:id/hold", middleware.RequireRole(model.RoleAdmin, model.RolePurchasing), h.Hold)
		requests.POST("/:id/process", middleware.RequireRole(model.RoleAdmin, model.RolePurchasing), h.Process)
		requests.POST("/:id/complete", middleware.RequireRole(model.RoleAdmin, model.RolePurchasing), h.Complete)
	}

	router.GET("/departments/:id/chain", middleware.RequireRole(), h.Chain)
}

// Create handles POST /requests
// @Summary      Create a purchase request
// @Description  Creates a request with its items; unless saved as draft it is routed onto the department's approval chain
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Create Request Payload"
// @Success      201      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	// Non-admins always create requests in their own name
	if role, _ := c.Get("userRole"); role != model.RoleAdmin {
		req.UserID = userID.String()
	}

	request, err := h.requestService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// List handles GET /requests
// @Summary      List purchase requests
// @Description  Lists requests visible to the caller, filtered and paginated
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        query                   query     string  false  "Search by code, description or requester name"
// @Param        department_id           query     string  false  "Filter by department"
// @Param        user_id                 query     string  false  "Filter by requester"
// @Param        status                  query     string  false  "Filter by status"
// @Param        urgency_level           query     string  false  "Filter by urgency"
// @Param        current_approval_level  query     int     false  "Filter by approval level"
// @Param        start_date              query     string  false  "Request date lower bound"
// @Param        end_date                query     string  false  "Request date upper bound"
// @Param        sort_by                 query     string  false  "Sort column"
// @Param        sort_order              query     string  false  "asc or desc"
// @Param        page                    query     int     false  "Page number"
// @Param        limit                   query     int     false  "Page size"
// @Success      200  {object}  response.Response{data=[]model.Request}
// @Router       /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.QueryRequestDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters"))
		return
	}

	requests, total, err := h.requestService.List(c.Request.Context(), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	meta := response.NewPaginationMeta(req.Page, req.Limit, total)
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, meta))
}

// GetByID handles GET /requests/:id
// @Summary      Get request by ID
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      404  {object}  response.Response
// @Router       /requests/{id} [get]
func (h *RequestHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Logs handles GET /requests/:id/logs
// @Summary      Get a request's decision trail
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=[]model.ApprovalLog}
// @Failure      404  {object}  response.Response
// @Router       /requests/{id}/logs [get]
func (h *RequestHandler) Logs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logs, err := h.requestService.Logs(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

// Update handles PUT /requests/:id
// @Summary      Update a draft request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Request ID"
// @Param        payload  body      service.UpdateRequestDTO  true  "Update Request Payload"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /requests/{id} [put]
func (h *RequestHandler) Update(c *gin.Context) {
	var req service.UpdateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.requestService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Delete handles DELETE /requests/:id
// @Summary      Delete a draft request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requestService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Request deleted"}))
}

// Submit handles POST /requests/:id/submit
// @Summary      Submit a draft request for approval
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      400  {object}  response.Response
// @Router       /requests/{id}/submit [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Submit(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Approve handles POST /requests/:id/approve
// @Summary      Approve a request
// @Description  Records the caller's approval; when the current layer's quorum is complete the request advances
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true   "Request ID"
// @Param        payload  body      service.DecisionDTO  false  "Optional notes"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.DecisionDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}

	request, err := h.requestService.Approve(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Reject handles POST /requests/:id/reject
// @Summary      Reject a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Request ID"
// @Param        payload  body      service.RejectDTO  true  "Rejection notes"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.RejectDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.requestService.Reject(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Cancel handles POST /requests/:id/cancel
// @Summary      Cancel a request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      403  {object}  response.Response
// @Router       /requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Cancel(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Hold handles POST /requests/:id/hold
// @Summary      Put a request on hold
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true   "Request ID"
// @Param        payload  body      service.HoldDTO  false  "Hold notes"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /requests/{id}/hold [post]
func (h *RequestHandler) Hold(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.HoldDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}

	request, err := h.requestService.Hold(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Process handles POST /requests/:id/process
// @Summary      Start procurement on a fully approved request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      400  {object}  response.Response
// @Router       /requests/{id}/process [post]
func (h *RequestHandler) Process(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Process(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Complete handles POST /requests/:id/complete
// @Summary      Complete an in-process request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      400  {object}  response.Response
// @Router       /requests/{id}/complete [post]
func (h *RequestHandler) Complete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Chain handles GET /departments/:id/chain
// @Summary      Get a department's approval chain
// @Description  Returns the ordered approval layers derived from the department's approver records
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response{data=[]workflow.Layer}
// @Failure      404  {object}  response.Response
// @Router       /departments/{id}/chain [get]
func (h *RequestHandler) Chain(c *gin.Context) {
	chain, err := h.requestService.Chain(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, chain))
}
