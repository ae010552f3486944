package usecase

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/place-microservice/internal/config"
	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/logger"
	"github.com/place-microservice/internal/pkg/metrics"
	"github.com/place-microservice/internal/pkg/utils"
	"github.com/place-microservice/internal/usecase/dto"
)

type PlaceUseCase struct {
	provider     repository.PlaceProvider
	encyclopedia repository.EncyclopediaRepository
	views        *ViewUseCase
	likes        *LikeUseCase
	cfg          config.DiscoveryConfig
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewPlaceUseCase(
	provider repository.PlaceProvider,
	encyclopedia repository.EncyclopediaRepository,
	views *ViewUseCase,
	likes *LikeUseCase,
	cfg config.DiscoveryConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *PlaceUseCase {
	if cfg.EnrichConcurrency < 1 {
		cfg.EnrichConcurrency = 1
	}
	return &PlaceUseCase{
		provider:     provider,
		encyclopedia: encyclopedia,
		views:        views,
		likes:        likes,
		cfg:          cfg,
		metrics:      m,
		logger:       logger,
	}
}

// FindAttractions возвращает ближайшие места, отсортированные по расстоянию.
// Сбой поиска дает пустой список, а не ошибку
func (uc *PlaceUseCase) FindAttractions(ctx context.Context, req dto.AttractionsRequest) ([]dto.PlaceCard, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	limit := clampAttractions(req.Limit)

	bias := &domain.LocationBias{Center: domain.Location{Latitude: req.Lat, Longitude: req.Lon}}
	places, err := uc.provider.TextSearch(ctx, uc.cfg.SearchQuery, bias)
	if err != nil {
		uc.logger.Warn("Attraction search failed, returning empty list", zap.Error(err))
		uc.metrics.Degraded("attractions_search")
		return []dto.PlaceCard{}, nil
	}

	// берем с запасом, чтобы сортировке по расстоянию было из чего выбирать
	if n := min(2*limit, maxSearchCandidates); len(places) > n {
		places = places[:n]
	}

	cards := make([]dto.PlaceCard, 0, len(places))
	for i := range places {
		p := &places[i]
		if !p.HasLocation() {
			continue
		}
		card := uc.buildCard(p, req.Lat, req.Lon)
		card.Description = PickDescription(p, domain.ContextList)
		cards = append(cards, card)
	}

	sortByDistance(cards)
	if len(cards) > limit {
		cards = cards[:limit]
	}

	uc.enrichCards(ctx, cards)

	// порядок восстанавливаем после параллельного обогащения
	sortByDistance(cards)
	return cards, nil
}

// enrichCards дозапрашивает детали каждой карточки: телефон и, при отсутствии, описание
func (uc *PlaceUseCase) enrichCards(ctx context.Context, cards []dto.PlaceCard) {
	var g errgroup.Group
	g.SetLimit(uc.cfg.EnrichConcurrency)

	for i := range cards {
		card := &cards[i]
		g.Go(func() error {
			details, err := uc.provider.FetchDetails(ctx, card.PlaceID)
			if err != nil {
				uc.logger.Warn("Card enrichment failed",
					logger.PlaceID(card.PlaceID),
					zap.Error(err),
				)
				uc.metrics.Degraded("card_details")
			} else {
				card.Phone = optionalString(details.Phone())
				if strings.TrimSpace(card.Description) == "" {
					card.Description = PickDescription(details, domain.ContextDetail)
				}
			}
			if strings.TrimSpace(card.Description) == "" {
				card.Description = uc.cfg.Placeholder
			}
			return nil
		})
	}

	_ = g.Wait()
}

// GetPlaceDetail сначала засчитывает просмотр, затем запрашивает детали.
// Засчитывается и просмотр несуществующего места
func (uc *PlaceUseCase) GetPlaceDetail(ctx context.Context, placeID string, viewer domain.Viewer) (*dto.PlaceDetail, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, errors.ErrInvalidRequest
	}

	if err := uc.views.Bump(ctx, placeID); err != nil {
		uc.logger.Error("Failed to bump view counter", logger.PlaceID(placeID), zap.Error(err))
		uc.metrics.Degraded("view_bump")
	}

	p, err := uc.provider.FetchDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}

	detail := &dto.PlaceDetail{
		PlaceCard: dto.PlaceCard{
			PlaceID:      p.ID,
			Name:         p.Name,
			Address:      p.Address,
			OpeningHours: p.OpeningHours,
			PriceLevel:   p.PriceLevel,
			MapsURL:      p.MapsURI,
			Phone:        optionalString(p.Phone()),
			Rating:       p.Rating,
			ReviewCount:  p.UserRatingCount,
			ImageURL:     uc.provider.BuildPhotoURL(p.FirstPhotoRef(), cardPhotoWidth),
		},
		Photos: uc.photoURLs(p.PhotoRefs),
	}
	if p.HasLocation() {
		detail.Latitude = p.Location.Latitude
		detail.Longitude = p.Location.Longitude
	}

	detail.Description = uc.resolveDetailDescription(ctx, p)

	liked, err := uc.likes.IsLiked(ctx, viewer, placeID)
	if err != nil {
		uc.logger.Warn("Failed to resolve liked flag", logger.PlaceID(placeID), zap.Error(err))
	}
	detail.Liked = liked

	return detail, nil
}

// resolveDetailDescription: энциклопедия, затем описания провайдера без address descriptor
func (uc *PlaceUseCase) resolveDetailDescription(ctx context.Context, p *domain.Place) string {
	var lat, lon *float64
	if p.HasLocation() {
		lat, lon = &p.Location.Latitude, &p.Location.Longitude
	}

	summary, err := uc.encyclopedia.GetSummary(ctx, p.Name, lat, lon)
	if err != nil {
		uc.logger.Warn("Encyclopedia lookup failed", logger.PlaceID(p.ID), zap.Error(err))
		uc.metrics.Degraded("encyclopedia")
	}
	if s := strings.TrimSpace(summary); s != "" {
		return s
	}

	if s := PickDescription(p, domain.ContextDetail); s != "" {
		return s
	}
	return uc.cfg.Placeholder
}

func (uc *PlaceUseCase) photoURLs(refs []string) []string {
	if len(refs) > maxDetailPhotos {
		refs = refs[:maxDetailPhotos]
	}
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		if u := uc.provider.BuildPhotoURL(ref, detailPhotoWidth); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// GetTopPlaces - популярные места с живым расстоянием, фото и телефоном.
// Место, которое не удалось обогатить, пропускается
func (uc *PlaceUseCase) GetTopPlaces(ctx context.Context, req dto.TopPlacesRequest) ([]dto.PlaceCard, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	stats, err := uc.views.Top(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	slots := make([]*dto.PlaceCard, len(stats))

	var g errgroup.Group
	g.SetLimit(uc.cfg.EnrichConcurrency)

	for i, stat := range stats {
		g.Go(func() error {
			p, err := uc.provider.FetchDetails(ctx, stat.PlaceID)
			if err != nil {
				uc.logger.Error("Skipping top place", logger.PlaceID(stat.PlaceID), zap.Error(err))
				uc.metrics.Degraded("top_place")
				return nil
			}
			if !p.HasLocation() {
				uc.logger.Warn("Skipping top place without location", logger.PlaceID(stat.PlaceID))
				uc.metrics.Degraded("top_place")
				return nil
			}

			card := uc.buildCard(p, req.Lat, req.Lon)
			card.Phone = optionalString(p.Phone())
			slots[i] = &card
			return nil
		})
	}
	_ = g.Wait()

	out := make([]dto.PlaceCard, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// Autocomplete ищет места по запросу и оставляет совпадения по имени или адресу
func (uc *PlaceUseCase) Autocomplete(ctx context.Context, query string) ([]dto.AutocompleteItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.AutocompleteItem{}, nil
	}

	places, err := uc.provider.TextSearch(ctx, query, nil)
	if err != nil {
		uc.logger.Error("Autocomplete search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	needle := strings.ToLower(query)
	items := make([]dto.AutocompleteItem, 0, len(places))
	for i := range places {
		p := &places[i]
		if !p.HasLocation() {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Address), needle) {
			continue
		}
		items = append(items, dto.AutocompleteItem{PlaceID: p.ID, Name: p.Name})
	}
	return items, nil
}

// buildCard заполняет поля карточки из записи провайдера; место должно иметь координаты
func (uc *PlaceUseCase) buildCard(p *domain.Place, userLat, userLon float64) dto.PlaceCard {
	dist := utils.HaversineMeters(userLat, userLon, p.Location.Latitude, p.Location.Longitude)

	return dto.PlaceCard{
		PlaceID:        p.ID,
		Name:           p.Name,
		Address:        p.Address,
		Latitude:       p.Location.Latitude,
		Longitude:      p.Location.Longitude,
		DistanceMeters: dist,
		DistanceText:   utils.FormatDistance(dist),
		ImageURL:       uc.provider.BuildPhotoURL(p.FirstPhotoRef(), cardPhotoWidth),
		OpeningHours:   p.OpeningHours,
		PriceLevel:     p.PriceLevel,
		MapsURL:        p.MapsURI,
		Rating:         p.Rating,
		ReviewCount:    p.UserRatingCount,
	}
}

func sortByDistance(cards []dto.PlaceCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].DistanceMeters < cards[j].DistanceMeters
	})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
