package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ResidentHandler struct {
	residentService service.ResidentService
}

func NewResidentHandler(residentService service.ResidentService) *ResidentHandler {
	return &ResidentHandler{residentService: residentService}
}

// RegisterRoutes binds the resident profile endpoints
func (h *ResidentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/residents/complete-profile", middleware.RequireRole(model.RoleResident), h.CompleteProfile)
	router.GET("/profile", middleware.RequireAuth(), h.GetMyProfile)
	router.POST("/profile/update", middleware.RequireAuth(), h.UpdateMyProfile)
	router.PUT("/profile/update", middleware.RequireAuth(), h.UpdateMyProfile)

	residents := router.Group("/residents")
	{
		residents.GET("/my-profile", middleware.RequireAuth(), h.GetMyProfile)
		residents.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.ListResidents)
		residents.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.GetResident)
		residents.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateResident)
	}
}

// bindProfileInput binds the multipart demographic form plus the avatar file.
func bindProfileInput(c *gin.Context) (service.ProfileInput, bool) {
	var req service.ProfileInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return req, false
	}
	if file, err := c.FormFile("avatar"); err == nil {
		req.Avatar = file
	}
	return req, true
}

// CompleteProfile handles POST /residents/complete-profile
// @Summary      Complete the resident profile
// @Description  Creates the resident record from the full demographic form; one profile per account
// @Tags         residents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=model.Profile}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /residents/complete-profile [post]
func (h *ResidentHandler) CompleteProfile(c *gin.Context) {
	req, ok := bindProfileInput(c)
	if !ok {
		return
	}

	profile, err := h.residentService.CompleteProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, profile))
}

// GetMyProfile handles GET /profile and GET /residents/my-profile
// @Summary      Get the caller's resident profile
// @Tags         residents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profile [get]
func (h *ResidentHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.residentService.GetMyProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// UpdateMyProfile handles POST|PUT /profile/update
// @Summary      Update the caller's resident profile
// @Description  Full form replace; a new avatar removes the previous file
// @Tags         residents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Profile}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile/update [post]
func (h *ResidentHandler) UpdateMyProfile(c *gin.Context) {
	req, ok := bindProfileInput(c)
	if !ok {
		return
	}

	profile, err := h.residentService.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// ListResidents handles GET /residents
// @Summary      List residents
// @Tags         residents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ResidentSummary}
// @Router       /residents [get]
func (h *ResidentHandler) ListResidents(c *gin.Context) {
	residents, err := h.residentService.ListResidents(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, residents))
}

// GetResident handles GET /residents/:id
// @Summary      Get a resident record
// @Tags         residents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resident ID"
// @Success      200  {object}  response.Response{data=model.Resident}
// @Failure      404  {object}  response.Response
// @Router       /residents/{id} [get]
func (h *ResidentHandler) GetResident(c *gin.Context) {
	resident, err := h.residentService.GetResident(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, resident))
}

// UpdateResident handles PUT /residents/:id
// @Summary      Update a resident record
// @Description  Admin edit; the underlying profile and read model stay in sync
// @Tags         residents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resident ID"
// @Success      200  {object}  response.Response{data=model.Resident}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /residents/{id} [put]
func (h *ResidentHandler) UpdateResident(c *gin.Context) {
	req, ok := bindProfileInput(c)
	if !ok {
		return
	}

	resident, err := h.residentService.UpdateResident(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, resident))
}
