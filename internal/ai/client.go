// Package ai is the gateway to the Gemini generative backend. It turns prompts into
// plans, alternatives and images and maps backend failures onto internal/errs kinds.
// No call is retried here; a retry is always a new user-initiated call.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/metrics"
	"alcyxob/fitness-planner/internal/prompt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"
	DefaultTimeout    = 180 * time.Second

	// Images come back base64-encoded inside JSON.
	maxResponseSize = 32 * 1024 * 1024
)

// Operation labels used in logs and metrics.
const (
	OpPlan         = "plan"
	OpAlternatives = "alternatives"
	OpImage        = "image"
	OpImageEdit    = "image_edit"
)

// CredentialSource yields the API key for each call. An empty key means none is configured.
type CredentialSource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a CredentialSource that always returns the same key.
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) { return string(k), nil }

// Client talks to the generateContent endpoint.
type Client struct {
	baseURL     string
	textModel   string
	imageModel  string
	httpClient  *http.Client
	credentials CredentialSource
	logger      *zap.Logger
	metrics     *metrics.Metrics
	newID       func() string
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithModels(text, image string) Option {
	return func(c *Client) {
		if text != "" {
			c.textModel = text
		}
		if image != "" {
			c.imageModel = image
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithIDGenerator replaces uuid.NewString for plan and item ids.
func WithIDGenerator(f func() string) Option {
	return func(c *Client) { c.newID = f }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a gateway client. credentials is consulted on every call.
func NewClient(credentials CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		textModel:   DefaultTextModel,
		imageModel:  DefaultImageModel,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		credentials: credentials,
		logger:      zap.NewNop(),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GeneratePlan asks for a full plan and wraps the reply with a fresh id, the
// creation time, a duration label and the preferences it was built from.
func (c *Client) GeneratePlan(ctx context.Context, prefs domain.UserPreferences) (plan *domain.FitnessPlan, err error) {
	defer c.observe(OpPlan, c.textModel, time.Now(), &err)

	resp, err := c.generate(ctx, c.textModel, []part{{Text: prompt.PlanPrompt(prefs).Text()}}, jsonConfig())
	if err != nil {
		return nil, err
	}
	tree, err := ParseJSONText(resp.text())
	if err != nil {
		return nil, err
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, errs.Newf(errs.KindMalformedResponse, "plan reply is %T, want object", tree)
	}

	decoded := domain.DecodePlanPayload(obj)
	decoded.ID = c.newID()
	decoded.CreatedAt = c.now().UnixMilli()
	if decoded.Goal == "" {
		decoded.Goal = prefs.Goal
	}
	if decoded.Duration == "" {
		decoded.Duration = fmt.Sprintf("%d Days/Week", len(prefs.WorkoutDays))
	}
	if decoded.UserName == "" {
		decoded.UserName = prefs.Name
	}
	snapshot := prefs
	snapshot.WorkoutDays = append([]string(nil), prefs.WorkoutDays...)
	decoded.Preferences = &snapshot
	decoded.AssignItemIDs(c.newID)

	if !decoded.IsComplete() {
		c.logger.Warn("AI returned a plan without days", zap.String("planId", decoded.ID))
	}
	return &decoded, nil
}

// GetAlternatives asks for replacement options for one exercise or meal.
func (c *Client) GetAlternatives(ctx context.Context, itemName string, category domain.Category, constraint string) (opts []domain.AlternativeOption, err error) {
	defer c.observe(OpAlternatives, c.textModel, time.Now(), &err)

	p := prompt.AlternativesPrompt(itemName, category, constraint)
	resp, err := c.generate(ctx, c.textModel, []part{{Text: p.Text()}}, jsonConfig())
	if err != nil {
		return nil, err
	}
	tree, err := ParseJSONText(resp.text())
	if err != nil {
		return nil, err
	}
	switch tree.(type) {
	case []any, map[string]any:
	default:
		return nil, errs.Newf(errs.KindMalformedResponse, "alternatives reply is %T, want array", tree)
	}
	return domain.DecodeAlternatives(tree), nil
}

// GenerateImage returns the first image of the reply as a PNG data URI.
func (c *Client) GenerateImage(ctx context.Context, imagePrompt string) (uri string, err error) {
	defer c.observe(OpImage, c.imageModel, time.Now(), &err)

	if strings.TrimSpace(imagePrompt) == "" {
		return "", errs.Validation(map[string]string{"prompt": "Please describe the image"})
	}
	resp, err := c.generate(ctx, c.imageModel, []part{{Text: imagePrompt}}, imageConfig())
	if err != nil {
		return "", err
	}
	img := resp.firstImage()
	if img == nil {
		return "", errs.New(errs.KindNoContent, ErrNoImage)
	}
	return pngDataURI(img.Data), nil
}

// EditImage sends an image and an instruction and returns the edited image.
func (c *Client) EditImage(ctx context.Context, imageDataURI, instruction string) (uri string, err error) {
	defer c.observe(OpImageEdit, c.imageModel, time.Now(), &err)

	if strings.TrimSpace(instruction) == "" {
		return "", errs.Validation(map[string]string{"instruction": "Please describe the edit"})
	}
	mimeType, payload, err := ParseDataURI(imageDataURI)
	if err != nil {
		return "", err
	}
	parts := []part{
		{InlineData: &inlineData{MimeType: mimeType, Data: payload}},
		{Text: instruction},
	}
	resp, err := c.generate(ctx, c.imageModel, parts, imageConfig())
	if err != nil {
		return "", err
	}
	img := resp.firstImage()
	if img == nil {
		return "", errs.New(errs.KindNoContent, fmt.Errorf("image editing failed: %w", ErrNoImage))
	}
	return pngDataURI(img.Data), nil
}

// generate performs one generateContent call. The credential is resolved first,
// so a missing key never reaches the network.
func (c *Client) generate(ctx context.Context, model string, parts []part, config *generationConfig) (*generateResponse, error) {
	key, err := c.credentials.APIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve API key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errs.New(errs.KindMissingCredential, ErrNoAPIKey)
	}

	body := generateRequest{Contents: []content{{Role: "user", Parts: parts}}, GenerationConfig: config}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.KindUnknown, fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, errs.New(errs.KindUnknown, fmt.Errorf("read response: %w", err))
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, classify(httpResp.StatusCode, httpResp.Header, respBody)
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, errs.New(errs.KindMalformedResponse, fmt.Errorf("decode response envelope: %w", err))
	}
	if len(out.Candidates) == 0 {
		reason := "no candidates"
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + out.PromptFeedback.BlockReason
		}
		return nil, errs.New(errs.KindNoContent, errors.New(reason))
	}
	return &out, nil
}

func (c *Client) observe(op, model string, start time.Time, errp *error) {
	elapsed := time.Since(start)
	outcome := "ok"
	if *errp != nil {
		outcome = string(errs.KindOf(*errp))
	}
	c.metrics.ObserveAI(op, outcome, elapsed)

	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("model", model),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	}
	if *errp != nil {
		c.logger.Warn("AI call failed", append(fields, zap.Error(*errp))...)
		return
	}
	c.logger.Info("AI call finished", fields...)
}
