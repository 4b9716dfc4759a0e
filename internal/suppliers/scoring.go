package suppliers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
)

const listScoreCap = 15

// ReliabilityScore ranks a supplier on lead time, bulk discount, services
// offered and breadth of catalogue. The maximum reachable score is 100.
func ReliabilityScore(s *models.Supplier) int {
	score := 0

	if s.StandardLeadTimeDays != nil {
		switch days := *s.StandardLeadTimeDays; {
		case days <= 7:
			score += 20
		case days <= 14:
			score += 15
		case days <= 30:
			score += 10
		default:
			score += 5
		}
	}

	if s.BulkOrderDiscountRate != nil {
		switch rate := *s.BulkOrderDiscountRate; {
		case rate >= 0.15:
			score += 15
		case rate >= 0.10:
			score += 10
		case rate >= 0.05:
			score += 5
		}
	}

	if s.ProvidesCustomWork {
		score += 10
	}
	if s.ProvidesInstallation {
		score += 10
	}

	score += listScore(len(s.WoodTypesOffered))
	score += listScore(len(s.Specialties))
	score += listScore(len(s.ServiceCities))
	return score
}

func listScore(n int) int {
	return min(listScoreCap, 3*n)
}

// OrderTotal prices a set of pieces bought from the supplier after its bulk
// discount.
func OrderTotal(s *models.Supplier, items []models.Furniture) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price))
	}
	if s.BulkOrderDiscountRate != nil && *s.BulkOrderDiscountRate > 0 {
		rate := decimal.NewFromFloat(*s.BulkOrderDiscountRate)
		total = total.Mul(decimal.NewFromInt(1).Sub(rate))
	}
	return total.Round(2)
}

// CanServiceLocation reports whether city is one of the supplier's service
// cities, ignoring case.
func CanServiceLocation(s *models.Supplier, city string) bool {
	city = strings.TrimSpace(city)
	if city == "" {
		return false
	}
	for _, c := range s.ServiceCities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}
