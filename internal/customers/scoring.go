package customers

import (
	"time"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

const (
	pointsPerOrder = 10
	pointsPerYear  = 5
	vipBonus       = 20

	// VIPMinOrders is the default order count that qualifies a customer for VIP.
	VIPMinOrders = 5
)

// LoyaltyScore ranks a customer by order count, tenure in full years and VIP
// standing. The score has no upper bound.
func LoyaltyScore(c *models.Customer, orderCount int64, now time.Time) int {
	score := pointsPerOrder * int(orderCount)
	score += pointsPerYear * fullYearsBetween(c.RegistrationDate, now)
	if c.CustomerType == enums.CustomerTypeVIP {
		score += vipBonus
	}
	return score
}

func fullYearsBetween(from, to time.Time) int {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	from, to = from.UTC(), to.UTC()
	years := to.Year() - from.Year()
	if to.Before(from.AddDate(years, 0, 0)) {
		years--
	}
	return years
}

// EligibleForVIP reports whether a non-VIP customer has reached minOrders.
func EligibleForVIP(c *models.Customer, orderCount int64, minOrders int) bool {
	if minOrders <= 0 {
		minOrders = VIPMinOrders
	}
	return c.CustomerType != enums.CustomerTypeVIP && orderCount >= int64(minOrders)
}
