package handler

import (
	"encoding/json"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// RegisterRoutes binds the certificate request endpoints
func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	staffOnly := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	requests := router.Group("/document-requests")
	{
		requests.POST("", middleware.RequireRole(model.RoleResident), h.CreateRequest)
		requests.GET("", staffOnly, h.ListRequests)
		requests.GET("/my", middleware.RequireAuth(), h.ListMyRequests)
		requests.GET("/:id", middleware.RequireAuth(), h.GetRequest)
		requests.GET("/:id/download-pdf", middleware.RequireAuth(), h.DownloadPdf)
		requests.PUT("/:id", staffOnly, h.UpdateRequest)
		requests.PATCH("/:id", staffOnly, h.UpdateRequest)
		requests.POST("/:id/generate-pdf", staffOnly, h.GeneratePdf)
		requests.DELETE("/:id", staffOnly, h.DeleteRequest)
	}
}

// CreateRequest handles POST /document-requests
// @Summary      Request a certificate
// @Description  Accepts multipart form data: document_type, fields (JSON object) and an optional attachment
// @Tags         document-requests
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        document_type  formData  string  true   "Certificate type"
// @Param        fields         formData  string  true   "JSON object of certificate fields"
// @Param        attachment     formData  file    false  "Supporting document"
// @Success      201            {object}  response.Response{data=service.DocumentRequestResponse}
// @Failure      400            {object}  response.Response
// @Router       /document-requests [post]
func (h *DocumentHandler) CreateRequest(c *gin.Context) {
	req := service.CreateDocumentRequestInput{
		DocumentType: c.PostForm("document_type"),
		Fields:       map[string]string{},
	}
	if req.DocumentType == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "document_type is required"))
		return
	}

	if raw := c.PostForm("fields"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Fields); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "fields must be a JSON object of strings"))
			return
		}
	}

	if file, err := c.FormFile("attachment"); err == nil {
		req.Attachment = file
	}

	result, err := h.documentService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRequests handles GET /document-requests
// @Summary      List all certificate requests
// @Tags         document-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.DocumentRequestResponse}
// @Router       /document-requests [get]
func (h *DocumentHandler) ListRequests(c *gin.Context) {
	results, err := h.documentService.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// ListMyRequests handles GET /document-requests/my
// @Summary      List the caller's certificate requests
// @Tags         document-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.DocumentRequestResponse}
// @Router       /document-requests/my [get]
func (h *DocumentHandler) ListMyRequests(c *gin.Context) {
	results, err := h.documentService.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// GetRequest handles GET /document-requests/:id
// @Summary      Get a certificate request
// @Tags         document-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document Request ID"
// @Success      200  {object}  response.Response{data=service.DocumentRequestResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /document-requests/{id} [get]
func (h *DocumentHandler) GetRequest(c *gin.Context) {
	result, err := h.documentService.Get(c.Request.Context(), c.Param("id"), currentUserID(c), currentUserRole(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateRequest handles PUT|PATCH /document-requests/:id
// @Summary      Update a certificate request
// @Description  Partial update of status and fields
// @Tags         document-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Document Request ID"
// @Param        payload  body      service.UpdateDocumentRequestInput  true  "Patch Payload"
// @Success      200      {object}  response.Response{data=service.DocumentRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /document-requests/{id} [patch]
func (h *DocumentHandler) UpdateRequest(c *gin.Context) {
	var req service.UpdateDocumentRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.documentService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GeneratePdf handles POST /document-requests/:id/generate-pdf
// @Summary      Generate the certificate PDF
// @Description  Renders and stores the PDF for an approved request; regenerating overwrites
// @Tags         document-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document Request ID"
// @Success      200  {object}  response.Response{data=service.DocumentRequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /document-requests/{id}/generate-pdf [post]
func (h *DocumentHandler) GeneratePdf(c *gin.Context) {
	result, err := h.documentService.GeneratePdf(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Certificate generated", result))
}

// DownloadPdf handles GET /document-requests/:id/download-pdf
// @Summary      Download the generated certificate
// @Tags         document-requests
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "Document Request ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /document-requests/{id}/download-pdf [get]
func (h *DocumentHandler) DownloadPdf(c *gin.Context) {
	absPath, filename, err := h.documentService.PdfFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.FileAttachment(absPath, filename)
}

// DeleteRequest handles DELETE /document-requests/:id
// @Summary      Delete a certificate request
// @Tags         document-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /document-requests/{id} [delete]
func (h *DocumentHandler) DeleteRequest(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Document request deleted", nil))
}
