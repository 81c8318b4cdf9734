package service

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

// fuzzyDistance - максимальное расстояние Левенштейна для нечеткого поиска
const fuzzyDistance = 2

// FilterLeads оставляет лиды, подходящие под все заданные условия фильтра.
// Порядок сохраняется.
func FilterLeads(leads []*domain.Lead, filter domain.LeadFilter) []*domain.Lead {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]*domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if filter.PipelineID != "" && lead.PipelineID != filter.PipelineID {
			continue
		}
		if filter.StageID != "" && lead.StageID != filter.StageID {
			continue
		}
		if filter.Source != "" && !strings.EqualFold(lead.Source, filter.Source) {
			continue
		}
		if filter.CreatedFrom != nil && lead.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && lead.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if filter.MinValue != nil && lead.Value.LessThan(*filter.MinValue) {
			continue
		}
		if filter.MaxValue != nil && lead.Value.GreaterThan(*filter.MaxValue) {
			continue
		}
		if query != "" && !matchesQuery(lead, query, filter.Fuzzy) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func matchesQuery(lead *domain.Lead, query string, fuzzy bool) bool {
	fields := []string{lead.FullName(), lead.Email, lead.Phone}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	if !fuzzy {
		return false
	}

	for _, name := range []string{lead.FirstName, lead.LastName, lead.FullName()} {
		name = strings.ToLower(name)
		if name == "" {
			continue
		}
		// короткие строки совпадали бы с чем угодно
		if utf8.RuneCountInString(query) <= fuzzyDistance {
			continue
		}
		if levenshtein.ComputeDistance(name, query) <= fuzzyDistance {
			return true
		}
	}
	return false
}
