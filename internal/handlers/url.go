package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortly-go/internal/analytics"
	"github.com/serroba/shortly-go/internal/messaging"
	"github.com/serroba/shortly-go/internal/shortener"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// URLHandler handles short link operations.
type URLHandler struct {
	store               LinkStore
	baseURL             string
	defaultTTL          time.Duration
	publishLinkCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishLinkResolved messaging.Publish[analytics.LinkResolvedEvent]
	logger              *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	store LinkStore,
	baseURL string,
	defaultTTL time.Duration,
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishLinkResolved messaging.Publish[analytics.LinkResolvedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		store:               store,
		baseURL:             baseURL,
		defaultTTL:          defaultTTL,
		publishLinkCreated:  publishLinkCreated,
		publishLinkResolved: publishLinkResolved,
		logger:              logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for analytics.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) ShortenURL(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	target, err := NormalizeTarget(req.Body.URL)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	if req.Body.TTL < 0 || req.Body.TTL > MaxTTLSeconds {
		return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("ttl must be between 0 and %d seconds", MaxTTLSeconds))
	}

	ttl := h.defaultTTL
	if req.Body.TTL > 0 {
		ttl = time.Duration(req.Body.TTL) * time.Second
	}

	link, err := h.store.Create(target, ttl)
	if err != nil {
		h.logger.Error("failed to create short link",
			zap.String("url", target),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to create short link")
	}

	h.logger.Debug("short link ready",
		zap.String("code", link.ID),
		zap.String("url", link.Target),
		zap.Time("expiresAt", link.ExpiresAt),
	)

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:      link.ID,
		Target:    link.Target,
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishLinkCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, link.ID)

	resp := &ShortenResponse{}
	resp.Location = fullShortURL
	resp.Body.Code = link.ID
	resp.Body.ShortURL = fullShortURL
	resp.Body.OriginalURL = link.Target
	resp.Body.ExpiresAt = link.ExpiresAt

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	target, err := h.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	return &RedirectResponse{
		Status:       http.StatusFound,
		Location:     target,
		CacheControl: "no-store",
	}, nil
}

func (h *URLHandler) GetAnalytics(_ context.Context, req *CodeRequest) (*AnalyticsResponse, error) {
	if !h.store.Exists(req.Code) {
		return nil, h.notFound(req.Code)
	}

	resp := &AnalyticsResponse{}
	resp.Body.ShortID = req.Code
	resp.Body.ClickCount = h.store.ClickCount(req.Code)

	return resp, nil
}

func (h *URLHandler) GetQRCode(ctx context.Context, req *QRCodeRequest) (*QRCodeResponse, error) {
	target, err := h.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(target, qrcode.Medium, req.Size)
	if err != nil {
		h.logger.Error("failed to render qr code",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to render qr code")
	}

	return &QRCodeResponse{
		ContentType: "image/png",
		Body:        png,
	}, nil
}

func (h *URLHandler) Root(_ context.Context, _ *struct{}) (*RootResponse, error) {
	resp := &RootResponse{}
	resp.Body.Message = "Welcome to Shortly URL Shortener!"
	resp.Body.Endpoints = map[string]string{
		"health":        "/health",
		"health_status": "/health/status",
		"shorten_url":   "/shorten",
		"retrieve_url":  "/{code}",
		"analytics":     "/{code}/analytics",
		"generate_qr":   "/{code}/qr",
		"metrics":       "/metrics",
	}

	return resp, nil
}

// resolve looks up a live target, counting the access and publishing it.
func (h *URLHandler) resolve(ctx context.Context, code string) (string, error) {
	if !h.store.Exists(code) {
		return "", h.notFound(code)
	}

	target, err := h.store.Resolve(code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return "", h.notFound(code)
		}

		h.logger.Error("failed to resolve short link",
			zap.String("code", code),
			zap.Error(err),
		)

		return "", huma.Error500InternalServerError("failed to resolve short link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkResolvedEvent{
		Code:       code,
		ResolvedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishLinkResolved(ctx, event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return target, nil
}

func (h *URLHandler) notFound(code string) error {
	h.logger.Debug("short link not found", zap.String("code", code))

	return huma.Error404NotFound("short link not found")
}
