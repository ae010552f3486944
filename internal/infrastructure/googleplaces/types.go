package googleplaces

import (
	"strings"

	"github.com/place-microservice/internal/domain"
)

// Маски полей Places API v1. Поиск возвращает вложенный массив places.*
const (
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.googleMapsUri," +
		"places.location,places.priceLevel,places.photos,places.currentOpeningHours.weekdayDescriptions," +
		"places.rating,places.userRatingCount,places.editorialSummary," +
		"places.generativeSummary.overview,places.generativeSummary.description," +
		"places.areaSummary,places.addressDescriptor"

	detailFieldMask = "id,displayName,formattedAddress,googleMapsUri,internationalPhoneNumber,nationalPhoneNumber," +
		"currentOpeningHours.weekdayDescriptions,priceLevel,rating,userRatingCount,photos," +
		"editorialSummary,generativeSummary.overview,generativeSummary.description," +
		"areaSummary,addressDescriptor,location,reviews"

	reviewsFieldMask = "id,rating,userRatingCount,reviews"
)

type searchTextRequest struct {
	TextQuery    string        `json:"textQuery"`
	LanguageCode string        `json:"languageCode,omitempty"`
	RegionCode   string        `json:"regionCode,omitempty"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchTextResponse struct {
	Places []placeV1 `json:"places"`
}

type localizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

func (t *localizedText) value() string {
	if t == nil {
		return ""
	}
	return strings.TrimSpace(t.Text)
}

type placeV1 struct {
	ID                       string             `json:"id"`
	DisplayName              *localizedText     `json:"displayName"`
	FormattedAddress         string             `json:"formattedAddress"`
	GoogleMapsURI            string             `json:"googleMapsUri"`
	Location                 *latLng            `json:"location"`
	PriceLevel               string             `json:"priceLevel"`
	Photos                   []photo            `json:"photos"`
	CurrentOpeningHours      *openingHours      `json:"currentOpeningHours"`
	Rating                   *float64           `json:"rating"`
	UserRatingCount          *int               `json:"userRatingCount"`
	EditorialSummary         *localizedText     `json:"editorialSummary"`
	GenerativeSummary        *generativeSummary `json:"generativeSummary"`
	AreaSummary              *areaSummary       `json:"areaSummary"`
	AddressDescriptor        *addressDescriptor `json:"addressDescriptor"`
	InternationalPhoneNumber string             `json:"internationalPhoneNumber"`
	NationalPhoneNumber      string             `json:"nationalPhoneNumber"`
	Reviews                  []reviewV1         `json:"reviews"`
}

type photo struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx"`
	HeightPx int    `json:"heightPx"`
}

type openingHours struct {
	WeekdayDescriptions []string `json:"weekdayDescriptions"`
}

type generativeSummary struct {
	Overview    *localizedText `json:"overview"`
	Description *localizedText `json:"description"`
}

type areaSummary struct {
	Text          *localizedText `json:"text"`
	ContentBlocks []struct {
		Content *localizedText `json:"content"`
	} `json:"contentBlocks"`
}

// value - сплошной текст, если есть, иначе склейка content blocks
func (a *areaSummary) value() string {
	if a == nil {
		return ""
	}
	if s := a.Text.value(); s != "" {
		return s
	}
	parts := make([]string, 0, len(a.ContentBlocks))
	for _, b := range a.ContentBlocks {
		if s := b.Content.value(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

type addressDescriptor struct {
	Landmarks []namedPlace `json:"landmarks"`
	Areas     []namedPlace `json:"areas"`
}

type namedPlace struct {
	Name        string         `json:"name"`
	PlaceID     string         `json:"placeId"`
	DisplayName *localizedText `json:"displayName"`
}

type reviewV1 struct {
	Rating                         float64            `json:"rating"`
	Text                           *localizedText     `json:"text"`
	OriginalText                   *localizedText     `json:"originalText"`
	RelativePublishTimeDescription string             `json:"relativePublishTimeDescription"`
	AuthorAttribution              *authorAttribution `json:"authorAttribution"`
}

type authorAttribution struct {
	DisplayName string `json:"displayName"`
	URI         string `json:"uri"`
	PhotoURI    string `json:"photoUri"`
}

func (p *placeV1) toDomain() domain.Place {
	place := domain.Place{
		ID:                 p.ID,
		Name:               p.DisplayName.value(),
		Address:            p.FormattedAddress,
		PriceLevel:         p.PriceLevel,
		Rating:             p.Rating,
		UserRatingCount:    p.UserRatingCount,
		EditorialSummary:   p.EditorialSummary.value(),
		AreaSummary:        p.AreaSummary.value(),
		MapsURI:            p.GoogleMapsURI,
		InternationalPhone: p.InternationalPhoneNumber,
		NationalPhone:      p.NationalPhoneNumber,
	}

	if p.Location != nil {
		place.Location = &domain.Location{Latitude: p.Location.Latitude, Longitude: p.Location.Longitude}
	}
	for _, ph := range p.Photos {
		if ph.Name != "" {
			place.PhotoRefs = append(place.PhotoRefs, ph.Name)
		}
	}
	if p.CurrentOpeningHours != nil {
		place.OpeningHours = p.CurrentOpeningHours.WeekdayDescriptions
	}
	if gs := p.GenerativeSummary; gs != nil {
		place.GenerativeSummary = &domain.GenerativeSummary{
			Overview:    gs.Overview.value(),
			Description: gs.Description.value(),
		}
	}
	if ad := p.AddressDescriptor; ad != nil {
		place.AddressDescriptor = &domain.AddressDescriptor{
			Landmarks: mapNamed(ad.Landmarks, func(id, name string) domain.Landmark {
				return domain.Landmark{PlaceID: id, DisplayName: name}
			}),
			Areas: mapNamed(ad.Areas, func(id, name string) domain.Area {
				return domain.Area{PlaceID: id, DisplayName: name}
			}),
		}
	}
	place.Reviews = mapReviews(p.Reviews)

	return place
}

func mapNamed[T domain.DisplayNamer](items []namedPlace, build func(id, name string) T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, build(it.PlaceID, it.DisplayName.value()))
	}
	return out
}

func mapReviews(in []reviewV1) []domain.ExternalReview {
	out := make([]domain.ExternalReview, 0, len(in))
	for _, r := range in {
		text := r.Text.value()
		if text == "" {
			text = r.OriginalText.value()
		}
		review := domain.ExternalReview{
			Rating:       r.Rating,
			Text:         text,
			RelativeTime: r.RelativePublishTimeDescription,
		}
		if r.AuthorAttribution != nil {
			review.AuthorName = r.AuthorAttribution.DisplayName
			review.AuthorPhoto = r.AuthorAttribution.PhotoURI
		}
		out = append(out, review)
	}
	return out
}
