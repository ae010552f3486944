package dto

// AttractionsRequest - поиск мест рядом с пользователем
type AttractionsRequest struct {
	Lat   float64 `query:"lat" validate:"min=-90,max=90"`
	Lon   float64 `query:"lng" validate:"min=-180,max=180"`
	Limit int     `query:"limit" validate:"omitempty,min=1,max=30"`
}

// TopPlacesRequest - популярные места с расстоянием от пользователя
type TopPlacesRequest struct {
	Lat   float64 `query:"lat" validate:"min=-90,max=90"`
	Lon   float64 `query:"lng" validate:"min=-180,max=180"`
	Limit int     `query:"limit" validate:"omitempty,min=1,max=10"`
}

// PlaceCard - краткая карточка места для списков
type PlaceCard struct {
	PlaceID        string   `json:"placeId"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	DistanceMeters int64    `json:"distanceMeters"`
	DistanceText   string   `json:"distanceText"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Description    string   `json:"description,omitempty"`
	OpeningHours   []string `json:"openingHours,omitempty"`
	PriceLevel     string   `json:"priceLevel,omitempty"`
	MapsURL        string   `json:"mapsUrl,omitempty"`
	Phone          *string  `json:"phone"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int     `json:"reviewCount"`
}

// PlaceDetail - страница места
type PlaceDetail struct {
	PlaceCard
	Photos []string `json:"photos"`
	Liked  bool     `json:"liked"`
}

type AutocompleteItem struct {
	PlaceID string `json:"placeId"`
	Name    string `json:"name"`
}
