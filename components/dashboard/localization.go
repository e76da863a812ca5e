package dashboard

import "strings"

var timeFrameLabelsLocalized = map[TimeFrame]map[string]string{
	TimeFrameDaily:     {"es": "Diario"},
	TimeFrameWeekly:    {"es": "Semanal"},
	TimeFrameMonthly:   {"es": "Mensual"},
	TimeFrameQuarterly: {"es": "Trimestral"},
	TimeFrameYearly:    {"es": "Anual"},
}

// LabelForLocale returns the localized time-frame label, falling back to Label.
func (t TimeFrame) LabelForLocale(locale string) string {
	return ResolveLocalizedValue(timeFrameLabelsLocalized[t], locale, t.Label())
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) automatically fall back to their
// base language (`es`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	if value, ok := values["default"]; ok && value != "" {
		return value
	}
	return fallback
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	candidates = append(candidates, "default")
	return candidates
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}
