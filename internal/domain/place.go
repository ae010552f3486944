package domain

import "strings"

type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// LocationBias смещает текстовый поиск к окружности вокруг точки
type LocationBias struct {
	Center       Location
	RadiusMeters float64
}

// Place - запись провайдера мест (поиск и детали имеют одну форму)
type Place struct {
	ID                 string
	Name               string
	Address            string
	Location           *Location
	PhotoRefs          []string
	OpeningHours       []string
	PriceLevel         string
	Rating             *float64
	UserRatingCount    *int
	EditorialSummary   string
	GenerativeSummary  *GenerativeSummary
	AreaSummary        string
	AddressDescriptor  *AddressDescriptor
	MapsURI            string
	InternationalPhone string
	NationalPhone      string
	Reviews            []ExternalReview
}

type GenerativeSummary struct {
	Overview    string
	Description string
}

type AddressDescriptor struct {
	Landmarks []Landmark
	Areas     []Area
}

// DisplayNamer - всё, у чего есть локализованное отображаемое имя
type DisplayNamer interface {
	DisplayText() string
}

type Landmark struct {
	PlaceID     string
	DisplayName string
}

func (l Landmark) DisplayText() string { return l.DisplayName }

type Area struct {
	PlaceID     string
	DisplayName string
}

func (a Area) DisplayText() string { return a.DisplayName }

// FirstDisplayText возвращает первое непустое отображаемое имя
func FirstDisplayText[T DisplayNamer](items []T) string {
	for _, it := range items {
		if s := strings.TrimSpace(it.DisplayText()); s != "" {
			return s
		}
	}
	return ""
}

func (p *Place) HasLocation() bool {
	return p != nil && p.Location != nil
}

// Phone - международный номер, иначе национальный
func (p *Place) Phone() string {
	if p == nil {
		return ""
	}
	if s := strings.TrimSpace(p.InternationalPhone); s != "" {
		return s
	}
	return strings.TrimSpace(p.NationalPhone)
}

// FirstPhotoRef - ссылка на первое фото или пустая строка
func (p *Place) FirstPhotoRef() string {
	if p == nil || len(p.PhotoRefs) == 0 {
		return ""
	}
	return p.PhotoRefs[0]
}

// DescriptionContext определяет, допустим ли грубый текст из address descriptor
type DescriptionContext int

const (
	// ContextList - карточка в списке, допускается "near {landmark}"
	ContextList DescriptionContext = iota
	// ContextDetail - страница места, только содержательные описания
	ContextDetail
)
