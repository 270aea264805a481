package services

import (
	"math"

	"ratecard-service/internal/models"
)

// ============================================================================
// PACKAGE BUNDLING
// ============================================================================
//
// A package's individual total is computed once, from the committed rates at
// assembly time, and then frozen. Later rate changes never rewrite package
// economics; only an explicit package edit recomputes them.

// assemblePackage builds a package from items and a bundle price, summing the
// individual total from the given rates. Items referencing deliverables absent
// from the rates contribute zero and mark the package incomplete.
func assemblePackage(name string, items []models.PackageItem, packagePrice int64, rates []models.PlatformRates) models.Package {
	total, incomplete := individualTotal(items, rates)
	return models.Package{
		Name:            name,
		Items:           items,
		IndividualTotal: total,
		PackagePrice:    packagePrice,
		Savings:         computeSavings(total, packagePrice),
		Incomplete:      incomplete,
	}
}

func individualTotal(items []models.PackageItem, rates []models.PlatformRates) (int64, bool) {
	var total int64
	incomplete := false
	for _, item := range items {
		rate, ok := lookupRate(rates, item.Platform, item.DeliverableType)
		if !ok {
			incomplete = true
			continue
		}
		total += rate.ChosenPrice * int64(item.Quantity)
	}
	return total, incomplete
}

func lookupRate(rates []models.PlatformRates, p models.Platform, t models.DeliverableType) (models.DeliverableRate, bool) {
	for _, pr := range rates {
		if pr.Platform != p {
			continue
		}
		for _, item := range pr.Items {
			if item.Type == t {
				return item, true
			}
		}
	}
	return models.DeliverableRate{}, false
}

// computeSavings derives the discount of a bundle price against the individual
// total. A bundle priced above its total yields negative savings, signaling a
// markup rather than hiding it. Only a zero total yields no savings at all.
func computeSavings(total, packagePrice int64) models.Savings {
	if total <= 0 {
		return models.Savings{}
	}
	amount := total - packagePrice
	return models.Savings{
		Amount:     amount,
		Percentage: int(math.Round(float64(amount) / float64(total) * 100)),
	}
}

func roundPrice(v float64) int64 {
	return int64(math.Round(v))
}
