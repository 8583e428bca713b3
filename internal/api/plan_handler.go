package api

import (
	"net/http"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves plan generation, storage and substitution.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs for API ---

// PlanResponse is a plan plus the tier it was loaded from.
type PlanResponse struct {
	domain.FitnessPlan
	IsDraft bool `json:"isDraft"`
}

// DemoPlanRequest optionally names the user of the demo plan.
type DemoPlanRequest struct {
	UserName string `json:"userName"`
}

// AlternativesRequest asks for replacements of one plan item.
type AlternativesRequest struct {
	ItemName   string `json:"itemName" binding:"required"`
	Category   string `json:"category" binding:"required"`
	Constraint string `json:"constraint" binding:"required"`
}

// SubstitutionRequest applies a chosen alternative to one item of a plan.
type SubstitutionRequest struct {
	DayIndex    *int                     `json:"dayIndex" binding:"required"`
	ItemID      string                   `json:"itemId" binding:"required"`
	Category    string                   `json:"category" binding:"required"`
	Alternative domain.AlternativeOption `json:"alternative"`
}

// MapPlanToResponse converts a plan to its response DTO.
func MapPlanToResponse(plan *domain.FitnessPlan, isDraft bool) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	return PlanResponse{FitnessPlan: *plan, IsDraft: isDraft}
}

// MapPlansToResponse converts saved plans to response DTOs.
func MapPlansToResponse(plans []domain.FitnessPlan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i], false)
	}
	return responses
}

func parseCategory(c *gin.Context, raw string) (domain.Category, bool) {
	category, ok := domain.ParseCategory(raw)
	if !ok {
		respondError(c, errs.Validation(map[string]string{"category": "Category must be Exercise or Meal"}))
	}
	return category, ok
}

// --- Handler Methods ---

// GeneratePlan godoc
// @Summary Generate a fitness plan
// @Description Validates the preferences, asks the AI for a weekly plan and stores it as the draft.
// @Tags Plans
// @Accept json
// @Produce json
// @Param preferences body domain.UserPreferences true "User preferences"
// @Success 201 {object} PlanResponse "Generated draft plan"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 412 {object} ErrorResponse "No API key configured"
// @Failure 429 {object} ErrorResponse "Rate limited"
// @Failure 502 {object} ErrorResponse "AI returned unusable data"
// @Router /plans/generate [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var prefs domain.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	plan, err := h.planService.GeneratePlan(c.Request.Context(), prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan, true))
}

// DemoPlan godoc
// @Summary Create a demo plan
// @Description Stores a fixed sample plan as the draft without calling the AI.
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body DemoPlanRequest false "Optional user name"
// @Success 201 {object} PlanResponse
// @Router /plans/demo [post]
func (h *PlanHandler) DemoPlan(c *gin.Context) {
	var req DemoPlanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}
	plan, err := h.planService.DemoPlan(c.Request.Context(), req.UserName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan, true))
}

// ListPlans godoc
// @Summary List saved plans
// @Tags Plans
// @Produce json
// @Success 200 {array} PlanResponse "Saved plans, newest first"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.ListSaved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// GetDraft godoc
// @Summary Get the current draft
// @Tags Plans
// @Produce json
// @Success 200 {object} PlanResponse
// @Failure 404 {object} ErrorResponse "No draft"
// @Router /plans/draft [get]
func (h *PlanHandler) GetDraft(c *gin.Context) {
	plan, err := h.planService.GetDraft(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan, true))
}

// GetPlan godoc
// @Summary Get a plan by id
// @Description Looks in the saved list first, then the draft slot.
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} ErrorResponse "Plan not found"
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, isDraft, err := h.planService.GetPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan, isDraft))
}

// SavePlan godoc
// @Summary Save a plan
// @Description Adds the plan to the saved list and clears the draft slot if it held this plan.
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} ErrorResponse "Plan not found"
// @Router /plans/{planId}/save [post]
func (h *PlanHandler) SavePlan(c *gin.Context) {
	plan, err := h.planService.SavePlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan, false))
}

// RegeneratePlan godoc
// @Summary Regenerate a plan
// @Description Generates a new draft from the preferences stored on an existing plan.
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 201 {object} PlanResponse
// @Failure 404 {object} ErrorResponse "Plan not found"
// @Failure 422 {object} ErrorResponse "Plan has no stored preferences"
// @Failure 429 {object} ErrorResponse "Rate limited"
// @Router /plans/{planId}/regenerate [post]
func (h *PlanHandler) RegeneratePlan(c *gin.Context) {
	plan, err := h.planService.RegeneratePlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan, true))
}

// DeletePlan godoc
// @Summary Delete a saved plan
// @Description Unknown ids are ignored. The draft slot is never touched.
// @Tags Plans
// @Param planId path string true "Plan ID"
// @Success 204 "Deleted"
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Alternatives godoc
// @Summary Suggest alternatives for a plan item
// @Description Returns three AI-suggested replacements for an exercise or a meal.
// @Tags Alternatives
// @Accept json
// @Produce json
// @Param request body AlternativesRequest true "Item and constraint"
// @Success 200 {array} domain.AlternativeOption
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 429 {object} ErrorResponse "Rate limited"
// @Router /alternatives [post]
func (h *PlanHandler) Alternatives(c *gin.Context) {
	var req AlternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	category, ok := parseCategory(c, req.Category)
	if !ok {
		return
	}
	options, err := h.planService.Alternatives(c.Request.Context(), req.ItemName, category, req.Constraint)
	if err != nil {
		respondError(c, err)
		return
	}
	if options == nil {
		options = []domain.AlternativeOption{}
	}
	c.JSON(http.StatusOK, options)
}

// Substitute godoc
// @Summary Apply an alternative
// @Description Replaces one exercise or meal and persists the plan in the tier that holds it.
// @Tags Plans
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body SubstitutionRequest true "Substitution"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} ErrorResponse "Validation error or day out of range"
// @Failure 404 {object} ErrorResponse "Plan or item not found"
// @Router /plans/{planId}/substitutions [post]
func (h *PlanHandler) Substitute(c *gin.Context) {
	var req SubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	category, ok := parseCategory(c, req.Category)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	plan, err := h.planService.SubstituteInPlan(ctx, c.Param("planId"), *req.DayIndex, req.ItemID, category, req.Alternative)
	if err != nil {
		respondError(c, err)
		return
	}
	isDraft, err := h.planService.IsDraft(ctx, plan.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan, isDraft))
}
