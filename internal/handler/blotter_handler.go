package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BlotterHandler struct {
	blotterService service.BlotterService
}

func NewBlotterHandler(blotterService service.BlotterService) *BlotterHandler {
	return &BlotterHandler{blotterService: blotterService}
}

// RegisterRoutes binds the blotter endpoints
func (h *BlotterHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/blotter-requests", middleware.RequireRole(model.RoleResident), h.CreateRequest)
	router.GET("/blotter-requests", middleware.RequireAuth(), h.ListMyRequests)
	router.GET("/admin/blotter-requests", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.ListAllRequests)
	router.PATCH("/blotter-requests/:id", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.UpdateRequest)
}

// CreateRequest handles POST /blotter-requests
// @Summary      File a blotter report
// @Tags         blotter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBlotterRequest  true  "Blotter Payload"
// @Success      201      {object}  response.Response{data=model.BlotterRequest}
// @Failure      400      {object}  response.Response
// @Router       /blotter-requests [post]
func (h *BlotterHandler) CreateRequest(c *gin.Context) {
	var req service.CreateBlotterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.blotterService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListMyRequests handles GET /blotter-requests
// @Summary      List the caller's blotter reports
// @Tags         blotter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.BlotterRequest}
// @Router       /blotter-requests [get]
func (h *BlotterHandler) ListMyRequests(c *gin.Context) {
	results, err := h.blotterService.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// ListAllRequests handles GET /admin/blotter-requests
// @Summary      List all blotter reports
// @Tags         blotter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.BlotterRequest}
// @Router       /admin/blotter-requests [get]
func (h *BlotterHandler) ListAllRequests(c *gin.Context) {
	results, err := h.blotterService.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// UpdateRequest handles PATCH /blotter-requests/:id
// @Summary      Update a blotter report's status and remarks
// @Tags         blotter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Blotter Request ID"
// @Param        payload  body      service.UpdateBlotterRequest  true  "Status Update"
// @Success      200      {object}  response.Response{data=model.BlotterRequest}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /blotter-requests/{id} [patch]
func (h *BlotterHandler) UpdateRequest(c *gin.Context) {
	var req service.UpdateBlotterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.blotterService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
