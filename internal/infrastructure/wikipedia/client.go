package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/place-microservice/internal/config"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/metrics"
)

const providerName = "wikipedia"

var _ repository.EncyclopediaRepository = (*Client)(nil)

// Client ищет краткое описание статьи: точный заголовок, поиск по заголовку,
// geosearch по координатам. Каждый шаг - сначала основной язык, затем запасной
type Client struct {
	httpClient   *http.Client
	baseTemplate string
	languages    []string
	geoRadiusM   int
	userAgent    string
	limiter      *rate.Limiter
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewClient(cfg *config.WikipediaConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	languages := []string{cfg.PrimaryLang}
	if cfg.FallbackLang != "" && cfg.FallbackLang != cfg.PrimaryLang {
		languages = append(languages, cfg.FallbackLang)
	}

	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		baseTemplate: cfg.BaseURLTemplate,
		languages:    languages,
		geoRadiusM:   cfg.GeoSearchRadiusM,
		userAgent:    cfg.UserAgent,
		limiter:      rate.NewLimiter(limit, 1),
		metrics:      m,
		logger:       logger,
	}
}

type summaryResponse struct {
	Type    string `json:"type"`
	Extract string `json:"extract"`
}

type titled struct {
	Title string `json:"title"`
}

type queryResponse struct {
	Query struct {
		Search    []titled `json:"search"`
		GeoSearch []titled `json:"geosearch"`
	} `json:"query"`
}

// GetSummary возвращает "" если статья не найдена. Сбой одного языка или шага
// не прерывает поиск; ошибка возвращается, только если упали все обращения
func (c *Client) GetSummary(ctx context.Context, title string, lat, lon *float64) (string, error) {
	title = strings.TrimSpace(title)
	var attempts lookupAttempts

	if title != "" {
		for _, lang := range c.languages {
			if s := attempts.summary(c.fetchSummary(ctx, lang, title)); s != "" {
				return s, nil
			}
		}

		for _, lang := range c.languages {
			found := attempts.title(c.searchTitle(ctx, lang, title))
			if found == "" {
				continue
			}
			if s := attempts.summary(c.fetchSummary(ctx, lang, found)); s != "" {
				return s, nil
			}
		}
	}

	if lat != nil && lon != nil {
		for _, lang := range c.languages {
			found := attempts.title(c.geoSearchTitle(ctx, lang, *lat, *lon))
			if found == "" {
				continue
			}
			if s := attempts.summary(c.fetchSummary(ctx, lang, found)); s != "" {
				return s, nil
			}
		}
	}

	if attempts.allFailed() {
		return "", attempts.lastErr
	}
	return "", nil
}

// lookupAttempts считает обращения к вики и запоминает последнюю ошибку
type lookupAttempts struct {
	total   int
	failed  int
	lastErr error
}

func (a *lookupAttempts) record(err error) {
	a.total++
	if err != nil {
		a.failed++
		a.lastErr = err
	}
}

func (a *lookupAttempts) summary(s string, err error) string {
	a.record(err)
	return s
}

func (a *lookupAttempts) title(t string, err error) string {
	a.record(err)
	return t
}

func (a *lookupAttempts) allFailed() bool {
	return a.failed > 0 && a.failed == a.total
}

func (c *Client) fetchSummary(ctx context.Context, lang, title string) (string, error) {
	endpoint := c.base(lang) + "/api/rest_v1/page/summary/" + url.PathEscape(title)

	var resp summaryResponse
	found, err := c.getJSON(ctx, "summary", endpoint, &resp)
	if err != nil || !found {
		return "", err
	}
	if resp.Type == "disambiguation" {
		return "", nil
	}
	return strings.TrimSpace(resp.Extract), nil
}

func (c *Client) searchTitle(ctx context.Context, lang, query string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("srlimit", "1")

	var resp queryResponse
	found, err := c.getJSON(ctx, "search", c.base(lang)+"/w/api.php?"+q.Encode(), &resp)
	if err != nil || !found || len(resp.Query.Search) == 0 {
		return "", err
	}
	return strings.TrimSpace(resp.Query.Search[0].Title), nil
}

func (c *Client) geoSearchTitle(ctx context.Context, lang string, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("list", "geosearch")
	q.Set("gscoord", strconv.FormatFloat(lat, 'f', -1, 64)+"|"+strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("gsradius", strconv.Itoa(c.geoRadiusM))
	q.Set("gslimit", "1")

	var resp queryResponse
	found, err := c.getJSON(ctx, "geosearch", c.base(lang)+"/w/api.php?"+q.Encode(), &resp)
	if err != nil || !found || len(resp.Query.GeoSearch) == 0 {
		return "", err
	}
	return strings.TrimSpace(resp.Query.GeoSearch[0].Title), nil
}

func (c *Client) base(lang string) string {
	return strings.TrimRight(fmt.Sprintf(c.baseTemplate, lang), "/")
}

// getJSON возвращает found=false для 4xx и нечитаемого тела
func (c *Client) getJSON(ctx context.Context, op, endpoint string, out interface{}) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, errors.ErrUpstreamUnavailable.Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(providerName, op, "transport_error", time.Since(start))
		return false, errors.ErrUpstreamUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		c.metrics.ObserveUpstream(providerName, op, "server_error", time.Since(start))
		return false, errors.ErrUpstreamUnavailable.Wrap(fmt.Errorf("wikipedia %s: status %d", op, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		c.metrics.ObserveUpstream(providerName, op, "miss", time.Since(start))
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ObserveUpstream(providerName, op, "decode_error", time.Since(start))
		c.logger.Debug("Failed to decode Wikipedia response",
			zap.String("operation", op),
			zap.Error(err))
		return false, nil
	}

	c.metrics.ObserveUpstream(providerName, op, "ok", time.Since(start))
	return true, nil
}
