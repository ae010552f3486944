package googleplaces

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/place-microservice/internal/config"
	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/metrics"
)

const (
	providerName = "google_places"

	minPhotoWidth = 100
	maxPhotoWidth = 1600

	placeIDPrefix = "places/"
)

var _ repository.PlaceProvider = (*Client)(nil)

// Client - HTTP-клиент Google Places API (New, v1)
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	language    string
	region      string
	biasRadiusM float64
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewClient создает клиент Places API с ограничением частоты запросов
func NewClient(cfg *config.PlacesConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		language:    cfg.Language,
		region:      cfg.Region,
		biasRadiusM: cfg.BiasRadiusMeters,
		limiter:     rate.NewLimiter(limit, burst),
		metrics:     m,
		logger:      logger,
	}
}

// TextSearch выполняет POST places:searchText
func (c *Client) TextSearch(ctx context.Context, query string, bias *domain.LocationBias) ([]domain.Place, error) {
	body := searchTextRequest{
		TextQuery:    query,
		LanguageCode: c.language,
		RegionCode:   c.region,
	}
	if bias != nil {
		radius := bias.RadiusMeters
		if radius <= 0 {
			radius = c.biasRadiusM
		}
		if radius > 0 {
			body.LocationBias = &locationBias{Circle: circle{
				Center: latLng{Latitude: bias.Center.Latitude, Longitude: bias.Center.Longitude},
				Radius: radius,
			}}
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	var resp searchTextResponse
	if err := c.do(ctx, "search", http.MethodPost, c.baseURL+"/places:searchText", searchFieldMask, payload, &resp); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(resp.Places))
	for i := range resp.Places {
		places = append(places, resp.Places[i].toDomain())
	}

	c.logger.Debug("Places text search completed",
		zap.String("query", query),
		zap.Int("results", len(places)))

	return places, nil
}

// FetchDetails выполняет GET places/{id}
func (c *Client) FetchDetails(ctx context.Context, placeID string) (*domain.Place, error) {
	var resp placeV1
	if err := c.do(ctx, "details", http.MethodGet, c.detailURL(placeID), detailFieldMask, nil, &resp); err != nil {
		return nil, err
	}

	place := resp.toDomain()
	return &place, nil
}

// FetchReviews запрашивает только отзывы и агрегированный рейтинг
func (c *Client) FetchReviews(ctx context.Context, placeID string) (*domain.ExternalReviewFeed, error) {
	var resp placeV1
	if err := c.do(ctx, "reviews", http.MethodGet, c.detailURL(placeID), reviewsFieldMask, nil, &resp); err != nil {
		return nil, err
	}

	feed := &domain.ExternalReviewFeed{
		Rating:  resp.Rating,
		Reviews: mapReviews(resp.Reviews),
	}
	if resp.UserRatingCount != nil {
		feed.ReviewCount = *resp.UserRatingCount
	}
	return feed, nil
}

// BuildPhotoURL строит URL медиа фото; ширина ограничена диапазоном [100, 1600]
func (c *Client) BuildPhotoURL(photoRef string, maxWidth int) string {
	photoRef = strings.Trim(strings.TrimSpace(photoRef), "/")
	if photoRef == "" {
		return ""
	}
	width := maxWidth
	if width < minPhotoWidth {
		width = minPhotoWidth
	}
	if width > maxPhotoWidth {
		width = maxPhotoWidth
	}
	return fmt.Sprintf("%s/%s/media?maxWidthPx=%d&key=%s", c.baseURL, photoRef, width, url.QueryEscape(c.apiKey))
}

func (c *Client) detailURL(placeID string) string {
	id := strings.TrimPrefix(strings.TrimSpace(placeID), placeIDPrefix)
	q := url.Values{}
	if c.language != "" {
		q.Set("languageCode", c.language)
	}
	if c.region != "" {
		q.Set("regionCode", c.region)
	}
	u := c.baseURL + "/places/" + url.PathEscape(id)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, op, method, endpoint, fieldMask string, payload []byte, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.ErrUpstreamUnavailable.Wrap(fmt.Errorf("rate limiter: %w", err))
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(providerName, op, "transport_error", time.Since(start))
		c.logger.Warn("Places API request failed",
			zap.String("operation", op),
			zap.Error(err))
		return errors.ErrUpstreamUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.metrics.ObserveUpstream(providerName, op, fmt.Sprintf("http_%d", resp.StatusCode), time.Since(start))
		c.logger.Warn("Places API returned error",
			zap.String("operation", op),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return mapStatus(resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ObserveUpstream(providerName, op, "decode_error", time.Since(start))
		c.logger.Error("Failed to decode Places API response",
			zap.String("operation", op),
			zap.Error(err))
		return errors.ErrUpstreamBadResponse.Wrap(err)
	}

	c.metrics.ObserveUpstream(providerName, op, "ok", time.Since(start))
	return nil
}

func mapStatus(status int, body []byte) error {
	cause := fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(body)))
	switch {
	case status == http.StatusNotFound:
		return errors.ErrPlaceNotFound.Wrap(cause)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return errors.ErrUpstreamUnavailable.Wrap(cause)
	default:
		return errors.ErrUpstreamBadResponse.Wrap(cause)
	}
}
