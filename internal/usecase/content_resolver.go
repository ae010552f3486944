package usecase

import (
	"strings"

	"github.com/place-microservice/internal/domain"
)

// PickDescription выбирает первое непустое описание места:
// editorial, затем generative (description, потом overview), затем area summary.
// Текст из address descriptor допустим только для карточки в списке
func PickDescription(p *domain.Place, ctx domain.DescriptionContext) string {
	if p == nil {
		return ""
	}

	if s := strings.TrimSpace(p.EditorialSummary); s != "" {
		return s
	}
	if g := p.GenerativeSummary; g != nil {
		if s := strings.TrimSpace(g.Description); s != "" {
			return s
		}
		if s := strings.TrimSpace(g.Overview); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(p.AreaSummary); s != "" {
		return s
	}

	if ctx != domain.ContextList || p.AddressDescriptor == nil {
		return ""
	}
	if name := domain.FirstDisplayText(p.AddressDescriptor.Landmarks); name != "" {
		return "near " + name
	}
	if name := domain.FirstDisplayText(p.AddressDescriptor.Areas); name != "" {
		return "around " + name
	}
	return ""
}
