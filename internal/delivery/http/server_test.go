package http_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/config"
	delivery "github.com/place-microservice/internal/delivery/http"
	"github.com/place-microservice/internal/delivery/http/handler"
	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/metrics"
	"github.com/place-microservice/internal/usecase"
)

type stubProvider struct {
	places []domain.Place
}

func (p *stubProvider) TextSearch(context.Context, string, *domain.LocationBias) ([]domain.Place, error) {
	return p.places, nil
}

func (p *stubProvider) FetchDetails(_ context.Context, id string) (*domain.Place, error) {
	for i := range p.places {
		if p.places[i].ID == id {
			cp := p.places[i]
			return &cp, nil
		}
	}
	return nil, errors.ErrPlaceNotFound
}

func (p *stubProvider) FetchReviews(context.Context, string) (*domain.ExternalReviewFeed, error) {
	return &domain.ExternalReviewFeed{}, nil
}

func (p *stubProvider) BuildPhotoURL(ref string, _ int) string {
	if ref == "" {
		return ""
	}
	return "https://photos.test/" + ref
}

type stubWiki struct{}

func (stubWiki) GetSummary(context.Context, string, *float64, *float64) (string, error) {
	return "", nil
}

type memViews struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (v *memViews) Increment(_ context.Context, placeID string, _ time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counts[placeID]++
	return nil
}

func (v *memViews) Top(context.Context, int) ([]domain.ViewStat, error) {
	return []domain.ViewStat{}, nil
}

type memReviews struct {
	mu   sync.Mutex
	rows []domain.Review
}

func (r *memReviews) Create(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = int64(len(r.rows) + 1)
	review.CreatedAt = time.Now()
	r.rows = append(r.rows, *review)
	return nil
}

func (r *memReviews) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			cp := row
			return &cp, nil
		}
	}
	return nil, errors.ErrReviewNotFound
}

func (r *memReviews) FindActive(_ context.Context, placeID string, authorID int64) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if !row.Deleted && row.PlaceID == placeID && row.AuthorID == authorID {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memReviews) ExistsActive(ctx context.Context, placeID string, authorID int64) (bool, error) {
	row, err := r.FindActive(ctx, placeID, authorID)
	return row != nil, err
}

func (r *memReviews) ListActive(_ context.Context, placeID string, _ int) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, row := range r.rows {
		if !row.Deleted && row.PlaceID == placeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memReviews) Summary(context.Context, string) (*domain.ReviewSummary, error) {
	return &domain.ReviewSummary{}, nil
}

func (r *memReviews) Update(context.Context, *domain.Review) error { return nil }

func (r *memReviews) SoftDelete(context.Context, int64) error { return nil }

type memLikes struct {
	mu    sync.Mutex
	likes []domain.Like
}

func (l *memLikes) Exists(_ context.Context, userID int64, placeID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, like := range l.likes {
		if like.UserID == userID && like.PlaceID == placeID {
			return true, nil
		}
	}
	return false, nil
}

func (l *memLikes) Insert(_ context.Context, like *domain.Like) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.likes = append(l.likes, *like)
	return nil
}

func (l *memLikes) Delete(context.Context, int64, string) (bool, error) { return false, nil }

func (l *memLikes) ListByUser(_ context.Context, userID int64, _ int, _ bool) ([]domain.Like, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Like
	for _, like := range l.likes {
		if like.UserID == userID {
			out = append(out, like)
		}
	}
	return out, nil
}

type checker struct{ err error }

func (c checker) Health(context.Context) error { return c.err }

var (
	_ repository.PlaceProvider          = (*stubProvider)(nil)
	_ repository.EncyclopediaRepository = stubWiki{}
	_ repository.ViewStatRepository     = (*memViews)(nil)
	_ repository.ReviewRepository       = (*memReviews)(nil)
	_ repository.LikeRepository         = (*memLikes)(nil)
)

type testServer struct {
	server *delivery.Server
	views  *memViews
}

func newTestServer(t *testing.T, dbErr error) *testServer {
	t.Helper()

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	provider := &stubProvider{places: []domain.Place{{
		ID:        "dobongsan",
		Name:      "도봉산",
		Location:  &domain.Location{Latitude: 37.6987, Longitude: 127.0154},
		PhotoRefs: []string{"ref-1"},
	}}}
	views := &memViews{counts: map[string]int64{}}

	viewUC := usecase.NewViewUseCase(views, m, logger)
	likeUC := usecase.NewLikeUseCase(&memLikes{}, provider, m, logger)
	placeUC := usecase.NewPlaceUseCase(provider, stubWiki{}, viewUC, likeUC, config.DiscoveryConfig{
		SearchQuery:       "도봉구 명소",
		EnrichConcurrency: 2,
		Placeholder:       "자세한 설명이 없습니다.",
	}, m, logger)
	reviewUC := usecase.NewReviewUseCase(&memReviews{}, provider, m, logger)

	cfg := &config.Config{Server: config.ServerConfig{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		CORSOrigins:  "http://localhost:3000",
	}}

	srv := delivery.NewServer(cfg, logger, delivery.Handlers{
		Place:  handler.NewPlaceHandler(placeUC, logger),
		Review: handler.NewReviewHandler(reviewUC, logger),
		Like:   handler.NewLikeHandler(likeUC, logger),
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{"postgres": checker{err: dbErr}}, logger),
	}, m, reg)

	return &testServer{server: srv, views: views}
}

func (ts *testServer) do(t *testing.T, method, target string, body []byte, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestServer_Health(t *testing.T) {
	resp, body := newTestServer(t, nil).do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	resp, body = newTestServer(t, stderrors.New("connection refused")).do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
}

func TestServer_Attractions(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/places/attractions?lng=127.04", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_COORDINATES", errorCode(body))

	resp, body = ts.do(t, http.MethodGet, "/api/v1/places/attractions?lat=37.66&lng=127.04&limit=31", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", errorCode(body))

	resp, body = ts.do(t, http.MethodGet, "/api/v1/places/attractions?lat=37.66&lng=127.04&limit=3", nil,
		map[string]string{"X-Request-ID": "req-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-1", resp.Header.Get("X-Request-ID"))

	cards, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, cards, 1)
	card := cards[0].(map[string]interface{})
	assert.Equal(t, "dobongsan", card["placeId"])
	assert.Equal(t, "https://photos.test/ref-1", card["imageUrl"])
}

func TestServer_DetailNotFoundStillCountsView(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/places/missing", nil, nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PLACE_NOT_FOUND", errorCode(body))
	assert.Equal(t, int64(1), ts.views.counts["missing"])
}

func TestServer_ReviewsRequireViewer(t *testing.T) {
	ts := newTestServer(t, nil)
	payload := []byte(`{"rating":4.5,"text":"경치가 정말 좋아요!"}`)
	viewer := map[string]string{"X-User-ID": "42", "X-User-Nickname": "dobong"}

	resp, body := ts.do(t, http.MethodPost, "/api/v1/places/dobongsan/reviews", payload, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "LOGIN_REQUIRED", errorCode(body))

	resp, body = ts.do(t, http.MethodPost, "/api/v1/places/dobongsan/reviews", payload, viewer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := body["data"].(map[string]interface{})
	assert.Equal(t, "dobong", created["authorName"])
	assert.Equal(t, true, created["isMine"])

	resp, body = ts.do(t, http.MethodPost, "/api/v1/places/dobongsan/reviews", payload, viewer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REVIEW_ALREADY_EXISTS", errorCode(body))

	resp, _ = ts.do(t, http.MethodPut, "/api/v1/places/dobongsan/reviews/abc", payload, viewer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/places/dobongsan/reviews?pinMine=true", nil, viewer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["data"].(map[string]interface{})
	reviews := list["reviews"].([]interface{})
	require.Len(t, reviews, 1)
	assert.Equal(t, true, reviews[0].(map[string]interface{})["isMine"])
}

func TestServer_Likes(t *testing.T) {
	ts := newTestServer(t, nil)
	viewer := map[string]string{"X-User-ID": "7"}

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/places/dobongsan/like", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/places/dobongsan/like", nil, viewer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/me/likes", nil, viewer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	liked := body["data"].([]interface{})
	require.Len(t, liked, 1)
	assert.Equal(t, "도봉산", liked[0].(map[string]interface{})["name"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/places/dobongsan", nil, viewer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := body["data"].(map[string]interface{})
	assert.Equal(t, true, detail["liked"])
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/v1/health", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "place_http_requests_total")
}
