package advisory

import (
	"fmt"
	"sort"
	"strings"

	"ratecard-service/internal/ai/gemini"
	"ratecard-service/internal/models"
)

// BuildPrompt renders the advisory prompt: creator profile plus the local
// expected ranges that anchor the model to realistic bounds.
func BuildPrompt(metrics models.CreatorMetrics, ranges RangeTable) string {
	return fmt.Sprintf(gemini.PricingAdvisoryPromptTemplate, formatProfile(metrics), formatRanges(ranges))
}

func formatProfile(metrics models.CreatorMetrics) string {
	var b strings.Builder

	for _, pm := range metrics.Platforms {
		fmt.Fprintf(&b, "- %s: %d followers, %.1f%% engagement rate", pm.Platform, pm.Followers, pm.EngagementRate)
		if pm.AvgViews != nil {
			fmt.Fprintf(&b, ", %d avg views", *pm.AvgViews)
		}
		if pm.AvgLikes != nil {
			fmt.Fprintf(&b, ", %d avg likes", *pm.AvgLikes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "- Niche: %s\n", metrics.Niche)
	fmt.Fprintf(&b, "- Location: %s (%s)\n", metrics.Location.City, metrics.Location.CityTier)
	if len(metrics.Languages) > 0 {
		fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(metrics.Languages, ", "))
	}
	fmt.Fprintf(&b, "- Experience: %s", metrics.Experience)

	return b.String()
}

func formatRanges(ranges RangeTable) string {
	platforms := make([]models.Platform, 0, len(ranges))
	for p := range ranges {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	var b strings.Builder
	for _, p := range platforms {
		types := make([]models.DeliverableType, 0, len(ranges[p]))
		for t := range ranges[p] {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		for _, t := range types {
			band := ranges[p][t]
			fmt.Fprintf(&b, "- %s/%s: expected %d, range %d - %d\n", p, t, band.Calculated, band.Min, band.Max)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
