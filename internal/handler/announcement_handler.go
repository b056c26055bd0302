package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementService
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// RegisterRoutes binds the announcement endpoints
func (h *AnnouncementHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public board: guests see posted announcements, staff also see drafts
	router.GET("/announcements", middleware.OptionalAuth(), h.ListAnnouncements)
	router.GET("/announcements/:id", middleware.OptionalAuth(), h.GetAnnouncement)

	admin := router.Group("/admin/announcements", middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	{
		admin.POST("", h.CreateAnnouncement)
		admin.PUT("/:id", h.UpdateAnnouncement)
		admin.PATCH("/:id/toggle", h.TogglePosted)
		admin.DELETE("/:id", h.DeleteAnnouncement)
	}
}

// ListAnnouncements handles GET /announcements
// @Summary      List announcements
// @Description  Open to guests; admin and staff see drafts too, everyone else sees posted only
// @Tags         announcements
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Announcement}
// @Router       /announcements [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	role := currentUserRole(c)
	includeDrafts := role == model.RoleAdmin || role == model.RoleStaff

	announcements, err := h.announcementService.List(c.Request.Context(), includeDrafts)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, announcements))
}

// GetAnnouncement handles GET /announcements/:id
// @Summary      Get an announcement
// @Tags         announcements
// @Produce      json
// @Param        id   path      string  true  "Announcement ID"
// @Success      200  {object}  response.Response{data=model.Announcement}
// @Failure      404  {object}  response.Response
// @Router       /announcements/{id} [get]
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	announcement, err := h.announcementService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Drafts stay out of sight for regular accounts
	role := currentUserRole(c)
	if announcement.Status != model.AnnouncementPosted && role != model.RoleAdmin && role != model.RoleStaff {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "announcement: not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, announcement))
}

// CreateAnnouncement handles POST /admin/announcements
// @Summary      Create an announcement draft
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AnnouncementInput  true  "Announcement Payload"
// @Success      201      {object}  response.Response{data=model.Announcement}
// @Failure      400      {object}  response.Response
// @Router       /admin/announcements [post]
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req service.AnnouncementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	announcement, err := h.announcementService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, announcement))
}

// UpdateAnnouncement handles PUT /admin/announcements/:id
// @Summary      Update an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Announcement ID"
// @Param        payload  body      service.AnnouncementInput  true  "Announcement Payload"
// @Success      200      {object}  response.Response{data=model.Announcement}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /admin/announcements/{id} [put]
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	var req service.AnnouncementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	announcement, err := h.announcementService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, announcement))
}

// TogglePosted handles PATCH /admin/announcements/:id/toggle
// @Summary      Toggle an announcement between draft and posted
// @Tags         announcements
// @Produce      json
// @Param        id   path      string  true  "Announcement ID"
// @Success      200  {object}  response.Response{data=model.Announcement}
// @Failure      404  {object}  response.Response
// @Router       /admin/announcements/{id}/toggle [patch]
func (h *AnnouncementHandler) TogglePosted(c *gin.Context) {
	announcement, err := h.announcementService.TogglePosted(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, announcement))
}

// DeleteAnnouncement handles DELETE /admin/announcements/:id
// @Summary      Delete an announcement
// @Tags         announcements
// @Produce      json
// @Param        id   path      string  true  "Announcement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/announcements/{id} [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.announcementService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Announcement deleted", nil))
}
