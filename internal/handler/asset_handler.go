package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	assetService service.AssetService
}

func NewAssetHandler(assetService service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// RegisterRoutes binds the asset catalog endpoints
func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/assets")
	{
		assets.GET("", middleware.RequireAuth(), h.ListAssets)
		assets.GET("/:id", middleware.RequireAuth(), h.GetAsset)
		assets.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateAsset)
		assets.PATCH("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateAsset)
	}
}

// ListAssets handles GET /assets
// @Summary      List rentable assets
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Name filter"
// @Success      200     {object}  response.Response{data=[]model.Asset}
// @Router       /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	params := pagination.Parse(c)

	assets, total, err := h.assetService.List(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"assets": assets,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetAsset handles GET /assets/:id
// @Summary      Get an asset
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=model.Asset}
// @Failure      404  {object}  response.Response
// @Router       /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.assetService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// CreateAsset handles POST /assets
// @Summary      Create an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateAssetRequest  true  "Asset Payload"
// @Success      201      {object}  response.Response{data=model.Asset}
// @Failure      400      {object}  response.Response
// @Router       /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, asset))
}

// UpdateAsset handles PATCH /assets/:id
// @Summary      Update an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Asset ID"
// @Param        payload  body      service.UpdateAssetRequest  true  "Asset Patch"
// @Success      200      {object}  response.Response{data=model.Asset}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /assets/{id} [patch]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}
