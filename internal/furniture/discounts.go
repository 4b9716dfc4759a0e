package furniture

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

var (
	baseDiscount     = decimal.RequireFromString("0.05")
	premiumDiscount  = decimal.RequireFromString("0.03")
	minChairDiscount = decimal.RequireFromString("0.02")
	onePercent       = decimal.RequireFromString("0.01")
	twoPercent       = decimal.RequireFromString("0.02")
	threePercent     = decimal.RequireFromString("0.03")
	miscPriceFloor   = decimal.RequireFromString("0.1")
)

// SuggestedDiscount returns the heuristic discount rate for f in [0, 1].
// Misc pieces have no discount rule and always get zero.
func SuggestedDiscount(f *models.Furniture) (decimal.Decimal, error) {
	if f == nil {
		return decimal.Zero, nil
	}
	if err := checkVariant(f); err != nil {
		return decimal.Zero, err
	}
	switch f.Kind {
	case enums.FurnitureKindBed:
		return BedDiscount(f.Bed), nil
	case enums.FurnitureKindChair:
		return ChairDiscount(f.Chair), nil
	case enums.FurnitureKindSofa:
		return SofaDiscount(f.Sofa), nil
	case enums.FurnitureKindTables:
		return TableDiscount(f.Table), nil
	default:
		return decimal.Zero, nil
	}
}

func BedDiscount(b *models.Bed) decimal.Decimal {
	d := baseDiscount
	size := strings.ToLower(strings.TrimSpace(b.Size))
	if (size == "king" || size == "queen") && b.HasHeadboard && b.HasFootboard {
		d = premiumDiscount
	}
	if b.HasStorageDrawers {
		d = d.Add(twoPercent)
	}
	if b.IsAdjustable {
		d = d.Add(twoPercent)
	}
	return clampRate(d)
}

func ChairDiscount(c *models.Chair) decimal.Decimal {
	d := baseDiscount
	if c.HasWheels && c.IsAdjustable {
		d = d.Add(threePercent)
	}
	if c.HasArmrests {
		d = d.Add(onePercent)
	}
	if containsFold(c.ChairStyle, "dining") {
		d = decimal.Max(minChairDiscount, d.Sub(twoPercent))
	}
	return clampRate(d)
}

func SofaDiscount(s *models.Sofa) decimal.Decimal {
	d := baseDiscount
	if containsFold(s.UpholsteryType, "leather") && s.HasRecliners {
		d = premiumDiscount
	}
	if s.IsConvertible {
		d = d.Add(twoPercent)
	}
	if s.SeatingCapacity >= 4 {
		d = d.Add(onePercent)
	}
	return clampRate(d)
}

func TableDiscount(t *models.Table) decimal.Decimal {
	d := baseDiscount
	if t.HasGlassTop {
		d = premiumDiscount
	}
	if t.IsExtendable {
		d = d.Add(twoPercent)
	}
	if t.SeatingCapacity >= 6 {
		d = d.Add(onePercent)
	}
	return clampRate(d)
}

// MiscFinalPrice is price plus modifiers, never below a tenth of the base price.
func MiscFinalPrice(f *models.Furniture) decimal.Decimal {
	price := decimal.NewFromFloat(f.Price)
	final := price.Add(ModifierTotal(f.Misc))
	return decimal.Max(final, price.Mul(miscPriceFloor))
}

func clampRate(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	if d.GreaterThan(one) {
		return one
	}
	return d
}

func containsFold(value *string, needle string) bool {
	if value == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*value), needle)
}
