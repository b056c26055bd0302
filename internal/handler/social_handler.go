package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	beneficiaryService  service.BeneficiaryService
	disbursementService service.DisbursementService
}

func NewSocialHandler(beneficiaryService service.BeneficiaryService, disbursementService service.DisbursementService) *SocialHandler {
	return &SocialHandler{
		beneficiaryService:  beneficiaryService,
		disbursementService: disbursementService,
	}
}

// RegisterRoutes binds the social services endpoints. Staff manage
// beneficiaries; only admin and treasurer touch disbursements.
func (h *SocialHandler) RegisterRoutes(router *gin.RouterGroup) {
	beneficiaries := router.Group("/beneficiaries", middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	{
		beneficiaries.GET("", h.ListBeneficiaries)
		beneficiaries.GET("/:id", h.GetBeneficiary)
		beneficiaries.POST("", h.CreateBeneficiary)
		beneficiaries.PUT("/:id", h.UpdateBeneficiary)
		beneficiaries.DELETE("/:id", h.DeleteBeneficiary)
	}

	disbursements := router.Group("/disbursements", middleware.RequireRole(model.RoleAdmin, model.RoleTreasurer))
	{
		disbursements.GET("", h.ListDisbursements)
		disbursements.POST("", h.CreateDisbursement)
		disbursements.PUT("/:id", h.UpdateDisbursement)
		disbursements.DELETE("/:id", h.DeleteDisbursement)
	}
}

// bindBeneficiaryInput binds the multipart beneficiary form plus attachment.
func bindBeneficiaryInput(c *gin.Context) (service.BeneficiaryInput, bool) {
	var req service.BeneficiaryInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return req, false
	}
	if file, err := c.FormFile("attachment"); err == nil {
		req.Attachment = file
	}
	return req, true
}

// ListBeneficiaries handles GET /beneficiaries
// @Summary      List beneficiaries
// @Tags         social-services
// @Produce      json
// @Security     BearerAuth
// @Param        beneficiary_type  query     string  false  "Filter by beneficiary type"
// @Param        status            query     string  false  "Filter by status"
// @Param        assistance_type   query     string  false  "Filter by assistance type"
// @Param        search            query     string  false  "Free-text search"
// @Success      200               {object}  response.Response{data=[]model.Beneficiary}
// @Router       /beneficiaries [get]
func (h *SocialHandler) ListBeneficiaries(c *gin.Context) {
	filter := repository.BeneficiaryFilter{
		BeneficiaryType: c.Query("beneficiary_type"),
		Status:          c.Query("status"),
		AssistanceType:  c.Query("assistance_type"),
		Search:          c.Query("search"),
	}

	beneficiaries, err := h.beneficiaryService.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, beneficiaries))
}

// GetBeneficiary handles GET /beneficiaries/:id
// @Summary      Get a beneficiary with disbursement history
// @Tags         social-services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Beneficiary ID"
// @Success      200  {object}  response.Response{data=model.Beneficiary}
// @Failure      404  {object}  response.Response
// @Router       /beneficiaries/{id} [get]
func (h *SocialHandler) GetBeneficiary(c *gin.Context) {
	beneficiary, err := h.beneficiaryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, beneficiary))
}

// CreateBeneficiary handles POST /beneficiaries
// @Summary      Enroll a beneficiary
// @Tags         social-services
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=model.Beneficiary}
// @Failure      400  {object}  response.Response
// @Router       /beneficiaries [post]
func (h *SocialHandler) CreateBeneficiary(c *gin.Context) {
	req, ok := bindBeneficiaryInput(c)
	if !ok {
		return
	}

	beneficiary, err := h.beneficiaryService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, beneficiary))
}

// UpdateBeneficiary handles PUT /beneficiaries/:id
// @Summary      Update a beneficiary
// @Tags         social-services
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Beneficiary ID"
// @Success      200  {object}  response.Response{data=model.Beneficiary}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /beneficiaries/{id} [put]
func (h *SocialHandler) UpdateBeneficiary(c *gin.Context) {
	req, ok := bindBeneficiaryInput(c)
	if !ok {
		return
	}

	beneficiary, err := h.beneficiaryService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, beneficiary))
}

// DeleteBeneficiary handles DELETE /beneficiaries/:id
// @Summary      Delete a beneficiary
// @Tags         social-services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Beneficiary ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /beneficiaries/{id} [delete]
func (h *SocialHandler) DeleteBeneficiary(c *gin.Context) {
	if err := h.beneficiaryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Beneficiary deleted", nil))
}

// ListDisbursements handles GET /disbursements
// @Summary      List disbursements
// @Tags         social-services
// @Produce      json
// @Security     BearerAuth
// @Param        beneficiary_id  query     string  false  "Filter by beneficiary"
// @Success      200             {object}  response.Response{data=[]model.Disbursement}
// @Router       /disbursements [get]
func (h *SocialHandler) ListDisbursements(c *gin.Context) {
	disbursements, err := h.disbursementService.List(c.Request.Context(), c.Query("beneficiary_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, disbursements))
}

// CreateDisbursement handles POST /disbursements
// @Summary      Record a disbursement
// @Description  Fails with 404 when the named beneficiary does not exist
// @Tags         social-services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.DisbursementInput  true  "Disbursement Payload"
// @Success      201      {object}  response.Response{data=model.Disbursement}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /disbursements [post]
func (h *SocialHandler) CreateDisbursement(c *gin.Context) {
	var req service.DisbursementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	disbursement, err := h.disbursementService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, disbursement))
}

// UpdateDisbursement handles PUT /disbursements/:id
// @Summary      Update a disbursement
// @Tags         social-services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Disbursement ID"
// @Param        payload  body      service.UpdateDisbursementInput  true  "Disbursement Patch"
// @Success      200      {object}  response.Response{data=model.Disbursement}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /disbursements/{id} [put]
func (h *SocialHandler) UpdateDisbursement(c *gin.Context) {
	var req service.UpdateDisbursementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	disbursement, err := h.disbursementService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, disbursement))
}

// DeleteDisbursement handles DELETE /disbursements/:id
// @Summary      Delete a disbursement
// @Tags         social-services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Disbursement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /disbursements/{id} [delete]
func (h *SocialHandler) DeleteDisbursement(c *gin.Context) {
	if err := h.disbursementService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Disbursement deleted", nil))
}
