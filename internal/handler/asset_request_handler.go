package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssetRequestHandler struct {
	requestService service.AssetRequestService
}

func NewAssetRequestHandler(requestService service.AssetRequestService) *AssetRequestHandler {
	return &AssetRequestHandler{requestService: requestService}
}

// RegisterRoutes binds the rental workflow endpoints
func (h *AssetRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Submission is throttled per user
	router.POST("/assets/request",
		middleware.RequireRole(model.RoleResident),
		middleware.RateLimit(10),
		h.CreateRequest)

	requests := router.Group("/asset-requests")
	{
		requests.GET("", middleware.RequireAuth(), h.ListRequests)
		requests.GET("/:id", middleware.RequireAuth(), h.GetRequest)
		requests.PATCH("/:id", middleware.RequireRole(model.RoleAdmin), h.ReviewRequest)
		requests.POST("/:id/pay", middleware.RequireRole(model.RoleAdmin, model.RoleTreasurer), h.PayRequest)
		requests.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteRequest)
	}
}

// CreateRequest handles POST /assets/request
// @Summary      Submit a rental request
// @Description  Creates a pending rental request with one or more asset line items
// @Tags         asset-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateAssetRequestInput  true  "Request Payload"
// @Success      201      {object}  response.Response{data=service.AssetRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /assets/request [post]
func (h *AssetRequestHandler) CreateRequest(c *gin.Context) {
	var req service.CreateAssetRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRequests handles GET /asset-requests
// @Summary      List rental requests
// @Description  Admins see every request; everyone else sees their own
// @Tags         asset-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.AssetRequestResponse}
// @Router       /asset-requests [get]
func (h *AssetRequestHandler) ListRequests(c *gin.Context) {
	results, err := h.requestService.List(c.Request.Context(), currentUserID(c), currentUserRole(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// GetRequest handles GET /asset-requests/:id
// @Summary      Get a rental request
// @Tags         asset-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Asset Request ID"
// @Success      200  {object}  response.Response{data=service.AssetRequestResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /asset-requests/{id} [get]
func (h *AssetRequestHandler) GetRequest(c *gin.Context) {
	result, err := h.requestService.Get(c.Request.Context(), c.Param("id"), currentUserID(c), currentUserRole(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ReviewRequest handles PATCH /asset-requests/:id
// @Summary      Approve or deny a rental request
// @Description  On approval, stock is decremented for each line item under a row lock
// @Tags         asset-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Asset Request ID"
// @Param        payload  body      service.ReviewAssetRequestInput  true  "Review Decision"
// @Success      200      {object}  response.Response{data=service.AssetRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /asset-requests/{id} [patch]
func (h *AssetRequestHandler) ReviewRequest(c *gin.Context) {
	var req service.ReviewAssetRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// PayRequest handles POST /asset-requests/:id/pay
// @Summary      Record payment for an approved rental request
// @Description  Computes the total from current prices and issues a receipt number
// @Tags         asset-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Asset Request ID"
// @Success      200  {object}  response.Response{data=service.PaymentResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /asset-requests/{id}/pay [post]
func (h *AssetRequestHandler) PayRequest(c *gin.Context) {
	result, err := h.requestService.Pay(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Payment recorded", result))
}

// DeleteRequest handles DELETE /asset-requests/:id
// @Summary      Delete a rental request
// @Tags         asset-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Asset Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /asset-requests/{id} [delete]
func (h *AssetRequestHandler) DeleteRequest(c *gin.Context) {
	if err := h.requestService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Asset request deleted", nil))
}
