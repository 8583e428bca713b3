package api

import (
	"net/http"
	"strings"

	"alcyxob/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// ImageHandler serves image generation, editing and the archive redirect.
type ImageHandler struct {
	imageService service.ImageService
	planService  service.PlanService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService service.ImageService, planService service.PlanService) *ImageHandler {
	return &ImageHandler{imageService: imageService, planService: planService}
}

// --- DTOs for API ---

type GenerateImageRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type EditImageRequest struct {
	Image       string `json:"image" binding:"required"` // data URI or bare base64 PNG
	Instruction string `json:"instruction" binding:"required"`
}

// AttachImageRequest sets the illustration of one plan item.
type AttachImageRequest struct {
	DayIndex *int   `json:"dayIndex" binding:"required"`
	ItemID   string `json:"itemId" binding:"required"`
	Category string `json:"category" binding:"required"`
	Image    string `json:"image" binding:"required"`
}

// ImageResponse carries a generated image as a data URI.
type ImageResponse struct {
	Image string `json:"image"`
}

// GenerateImage godoc
// @Summary Generate an illustration
// @Description Generates a photo-style image of an exercise or meal.
// @Tags Images
// @Accept json
// @Produce json
// @Param request body GenerateImageRequest true "What to illustrate"
// @Success 200 {object} ImageResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 429 {object} ErrorResponse "Rate limited"
// @Failure 502 {object} ErrorResponse "No image returned"
// @Router /images/generate [post]
func (h *ImageHandler) GenerateImage(c *gin.Context) {
	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	category, ok := parseCategory(c, req.Category)
	if !ok {
		return
	}
	uri, err := h.imageService.Generate(c.Request.Context(), req.Subject, category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{Image: uri})
}

// EditImage godoc
// @Summary Edit an image
// @Description Applies a free-text instruction to an existing image.
// @Tags Images
// @Accept json
// @Produce json
// @Param request body EditImageRequest true "Image and instruction"
// @Success 200 {object} ImageResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 429 {object} ErrorResponse "Rate limited"
// @Router /images/edit [post]
func (h *ImageHandler) EditImage(c *gin.Context) {
	var req EditImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	uri, err := h.imageService.Edit(c.Request.Context(), req.Image, req.Instruction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{Image: uri})
}

// AttachImage godoc
// @Summary Attach an image to a plan item
// @Description Stores the image (archived to S3 when configured) on one exercise or meal.
// @Tags Images
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body AttachImageRequest true "Target item and image"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Plan or item not found"
// @Router /plans/{planId}/images [post]
func (h *ImageHandler) AttachImage(c *gin.Context) {
	var req AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	category, ok := parseCategory(c, req.Category)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	plan, err := h.imageService.Attach(ctx, c.Param("planId"), *req.DayIndex, req.ItemID, category, req.Image)
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

// ArchivedImage godoc
// @Summary Download an archived image
// @Description Redirects to a short-lived presigned URL.
// @Tags Images
// @Param key path string true "Object key"
// @Success 307 "Redirect to the object"
// @Failure 404 {object} ErrorResponse "Archive disabled"
// @Router /images/{key} [get]
func (h *ImageHandler) ArchivedImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	url, err := h.imageService.DownloadURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
