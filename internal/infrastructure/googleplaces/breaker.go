package googleplaces

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/metrics"
)

var _ repository.PlaceProvider = (*CircuitBreakerProvider)(nil)

type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// CircuitBreakerProvider оборачивает PlaceProvider circuit breaker'ом.
// Открытая цепь отдает ErrUpstreamUnavailable без обращения к провайдеру
type CircuitBreakerProvider struct {
	next   repository.PlaceProvider
	cb     *gobreaker.CircuitBreaker[interface{}]
	logger *zap.Logger
}

func NewCircuitBreakerProvider(next repository.PlaceProvider, s BreakerSettings, m *metrics.Metrics, logger *zap.Logger) *CircuitBreakerProvider {
	if s.Name == "" {
		s.Name = providerName
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	m.SetBreakerState(s.Name, int(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// отсутствие места и битый ответ не говорят о недоступности провайдера
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return errors.KindOf(err) != errors.KindUpstreamUnavailable
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Places circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			m.SetBreakerState(name, int(to))
		},
	})

	return &CircuitBreakerProvider{next: next, cb: cb, logger: logger}
}

func execute[T any](p *CircuitBreakerProvider, fn func() (T, error)) (T, error) {
	res, err := p.cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errors.ErrUpstreamUnavailable.Wrap(err)
		}
		return zero, err
	}
	return res.(T), nil
}

func (p *CircuitBreakerProvider) TextSearch(ctx context.Context, query string, bias *domain.LocationBias) ([]domain.Place, error) {
	return execute(p, func() ([]domain.Place, error) {
		return p.next.TextSearch(ctx, query, bias)
	})
}

func (p *CircuitBreakerProvider) FetchDetails(ctx context.Context, placeID string) (*domain.Place, error) {
	return execute(p, func() (*domain.Place, error) {
		return p.next.FetchDetails(ctx, placeID)
	})
}

func (p *CircuitBreakerProvider) FetchReviews(ctx context.Context, placeID string) (*domain.ExternalReviewFeed, error) {
	return execute(p, func() (*domain.ExternalReviewFeed, error) {
		return p.next.FetchReviews(ctx, placeID)
	})
}

func (p *CircuitBreakerProvider) BuildPhotoURL(photoRef string, maxWidth int) string {
	return p.next.BuildPhotoURL(photoRef, maxWidth)
}

func (p *CircuitBreakerProvider) State() gobreaker.State {
	return p.cb.State()
}
