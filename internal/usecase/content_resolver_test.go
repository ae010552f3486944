package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/usecase"
)

func TestPickDescription_Order(t *testing.T) {
	full := func() *domain.Place {
		return &domain.Place{
			EditorialSummary: "editorial",
			GenerativeSummary: &domain.GenerativeSummary{
				Overview:    "overview",
				Description: "generative",
			},
			AreaSummary: "area",
			AddressDescriptor: &domain.AddressDescriptor{
				Landmarks: []domain.Landmark{{DisplayName: "도봉산역"}},
				Areas:     []domain.Area{{DisplayName: "창동"}},
			},
		}
	}

	p := full()
	assert.Equal(t, "editorial", usecase.PickDescription(p, domain.ContextList))

	p.EditorialSummary = "   "
	assert.Equal(t, "generative", usecase.PickDescription(p, domain.ContextList))

	p.GenerativeSummary.Description = ""
	assert.Equal(t, "overview", usecase.PickDescription(p, domain.ContextList))

	p.GenerativeSummary = nil
	assert.Equal(t, "area", usecase.PickDescription(p, domain.ContextList))

	p.AreaSummary = ""
	assert.Equal(t, "near 도봉산역", usecase.PickDescription(p, domain.ContextList))

	p.AddressDescriptor.Landmarks = []domain.Landmark{{DisplayName: " "}}
	assert.Equal(t, "around 창동", usecase.PickDescription(p, domain.ContextList))
}

func TestPickDescription_DetailSuppressesAddressDescriptor(t *testing.T) {
	p := &domain.Place{
		AddressDescriptor: &domain.AddressDescriptor{
			Landmarks: []domain.Landmark{{DisplayName: "도봉산역"}},
		},
	}

	assert.Equal(t, "near 도봉산역", usecase.PickDescription(p, domain.ContextList))
	assert.Empty(t, usecase.PickDescription(p, domain.ContextDetail))
}

func TestPickDescription_Empty(t *testing.T) {
	assert.Empty(t, usecase.PickDescription(nil, domain.ContextList))
	assert.Empty(t, usecase.PickDescription(&domain.Place{}, domain.ContextList))
}
