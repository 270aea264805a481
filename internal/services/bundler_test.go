package services

import (
	"testing"

	"ratecard-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func testRates() []models.PlatformRates {
	return []models.PlatformRates{
		{
			Platform: models.PlatformInstagram,
			Items: []models.DeliverableRate{
				{Platform: models.PlatformInstagram, Type: models.DeliverableReel, ChosenPrice: 50_000},
				{Platform: models.PlatformInstagram, Type: models.DeliverablePost, ChosenPrice: 30_000},
			},
		},
	}
}

func TestAssemblePackage_SumsQuantities(t *testing.T) {
	items := []models.PackageItem{
		{Platform: models.PlatformInstagram, DeliverableType: models.DeliverableReel, Quantity: 2},
		{Platform: models.PlatformInstagram, DeliverableType: models.DeliverablePost, Quantity: 1},
	}

	pkg := assemblePackage("Combo", items, 110_000, testRates())

	assert.Equal(t, int64(130_000), pkg.IndividualTotal)
	assert.Equal(t, int64(20_000), pkg.Savings.Amount)
	assert.Equal(t, 15, pkg.Savings.Percentage)
	assert.False(t, pkg.Incomplete)
}

func TestAssemblePackage_MissingRateMarksIncomplete(t *testing.T) {
	items := []models.PackageItem{
		{Platform: models.PlatformInstagram, DeliverableType: models.DeliverableReel, Quantity: 1},
		{Platform: models.PlatformYouTube, DeliverableType: models.DeliverableVideo, Quantity: 1},
	}

	pkg := assemblePackage("Cross", items, 40_000, testRates())

	assert.True(t, pkg.Incomplete)
	assert.Equal(t, int64(50_000), pkg.IndividualTotal, "unpriced items contribute zero")
}

func TestComputeSavings_EdgeCases(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		packagePrice int64
		expected     models.Savings
	}{
		{"normal discount", 100_000, 85_000, models.Savings{Amount: 15_000, Percentage: 15}},
		{"no discount", 100_000, 100_000, models.Savings{Amount: 0, Percentage: 0}},
		{"markup surfaces as negative savings", 100_000, 120_000, models.Savings{Amount: -20_000, Percentage: -20}},
		{"markup on a small total", 100, 150, models.Savings{Amount: -50, Percentage: -50}},
		{"zero total", 0, 5_000, models.Savings{}},
		{"rounded percentage", 90_000, 78_000, models.Savings{Amount: 12_000, Percentage: 13}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, computeSavings(tt.total, tt.packagePrice))
		})
	}
}
