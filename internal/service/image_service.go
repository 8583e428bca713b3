package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-planner/internal/ai"
	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/prompt"
	"alcyxob/fitness-planner/internal/ratelimit"
	"alcyxob/fitness-planner/internal/repository"
	"alcyxob/fitness-planner/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArchivedImagePrefix is the URL prefix stored on items whose image lives in the archive.
const ArchivedImagePrefix = "/api/v1/images/"

// archiveKeyPrefix scopes every object this service writes to the bucket.
const archiveKeyPrefix = "images/"

// ImageService generates and edits item illustrations and attaches them to plans.
type ImageService interface {
	Generate(ctx context.Context, subject string, category domain.Category) (string, error)
	Edit(ctx context.Context, imageDataURI, instruction string) (string, error)
	Attach(ctx context.Context, planID string, dayIndex int, itemID string, category domain.Category, imageDataURI string) (*domain.FitnessPlan, error)
	// DownloadURL returns a short-lived URL for an archived image key. Keys outside
	// the images/ prefix are rejected with storage.ErrInvalidObjectKey.
	DownloadURL(ctx context.Context, objectKey string) (string, error)
}

type imageService struct {
	store         repository.PlanStore
	gateway       Gateway
	limiter       RateGuard
	policy        ratelimit.Policy
	archive       storage.FileStorage // nil when the archive is disabled
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewImageService creates the image service. archive may be nil; attached images
// are then stored inline as data URIs.
func NewImageService(store repository.PlanStore, gateway Gateway, limiter RateGuard, policies Policies, archive storage.FileStorage, presignExpiry time.Duration, logger *zap.Logger) ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &imageService{
		store:         store,
		gateway:       gateway,
		limiter:       limiter,
		policy:        policies.Image,
		archive:       archive,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// Generate illustrates one plan item using the enhanced photo prompt.
func (s *imageService) Generate(ctx context.Context, subject string, category domain.Category) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errs.Validation(map[string]string{"subject": "Please name what to illustrate"})
	}
	if err := s.limiter.Check(ctx, s.policy); err != nil {
		return "", err
	}
	return s.gateway.GenerateImage(ctx, prompt.ImagePrompt(subject, category))
}

// Edit applies a free-text instruction to an existing image.
func (s *imageService) Edit(ctx context.Context, imageDataURI, instruction string) (string, error) {
	if strings.TrimSpace(imageDataURI) == "" {
		return "", errs.Validation(map[string]string{"image": "Please provide an image"})
	}
	if strings.TrimSpace(instruction) == "" {
		return "", errs.Validation(map[string]string{"instruction": "Please describe the edit"})
	}
	if err := s.limiter.Check(ctx, s.policy); err != nil {
		return "", err
	}
	return s.gateway.EditImage(ctx, imageDataURI, instruction)
}

// Attach sets the image of one exercise or meal. With an archive the bytes are
// uploaded and the item keeps an archive URL; a replaced archived image is deleted.
func (s *imageService) Attach(ctx context.Context, planID string, dayIndex int, itemID string, category domain.Category, imageDataURI string) (*domain.FitnessPlan, error) {
	mimeType, data, err := ai.DecodeDataURI(imageDataURI)
	if err != nil {
		return nil, err
	}
	plan, err := loadPlan(ctx, s.store, planID)
	if err != nil {
		return nil, err
	}

	url := imageDataURI
	var objectKey string
	if s.archive != nil {
		objectKey = fmt.Sprintf("%s%s/%s.%s", archiveKeyPrefix, planID, uuid.NewString(), extension(mimeType))
		if err := s.archive.PutObject(ctx, objectKey, mimeType, data); err != nil {
			return nil, fmt.Errorf("archive image: %w", err)
		}
		url = ArchivedImagePrefix + objectKey
	}

	updated := plan.Clone()
	prev, err := updated.SetItemImage(dayIndex, itemID, category, url)
	if err != nil {
		s.discard(objectKey)
		return nil, mapItemError(err)
	}
	if err := persistPlan(ctx, s.store, &updated); err != nil {
		s.discard(objectKey)
		return nil, err
	}

	if s.archive != nil && strings.HasPrefix(prev, ArchivedImagePrefix) {
		s.discard(strings.TrimPrefix(prev, ArchivedImagePrefix))
	}
	return &updated, nil
}

func (s *imageService) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}
	key := strings.TrimPrefix(objectKey, "/")
	if !strings.HasPrefix(key, archiveKeyPrefix) || len(key) == len(archiveKeyPrefix) {
		return "", storage.ErrInvalidObjectKey
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, key, s.presignExpiry)
}

// discard deletes an archived object on a best-effort basis.
func (s *imageService) discard(objectKey string) {
	if s.archive == nil || objectKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.archive.DeleteObject(ctx, objectKey); err != nil {
		s.logger.Warn("failed to delete archived image", zap.String("key", objectKey), zap.Error(err))
	}
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
