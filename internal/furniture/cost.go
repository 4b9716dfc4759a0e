package furniture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// ErrVariantMismatch is returned when the variant details do not match Kind.
var ErrVariantMismatch = errors.New("furniture variant details missing for kind")

var (
	bedHeadboardCost   = decimal.NewFromInt(75)
	bedFootboardCost   = decimal.NewFromInt(50)
	bedStorageCost     = decimal.NewFromInt(100)
	bedAdjustableCost  = decimal.NewFromInt(200)
	chairArmrestCost   = decimal.NewFromInt(20)
	chairAdjustCost    = decimal.NewFromInt(50)
	chairWheelsCost    = decimal.NewFromInt(15)
	sofaConvertCost    = decimal.NewFromInt(100)
	sofaReclinerCost   = decimal.NewFromInt(150)
	sofaCushionCost    = decimal.NewFromInt(10)
	tableExtendCost    = decimal.NewFromInt(80)
	tableGlassTopCost  = decimal.NewFromInt(100)
	tablePerSeatCost   = decimal.NewFromInt(15)
	sizeMultiplierKing = decimal.RequireFromString("1.4")
	sizeMultiplierQn   = decimal.RequireFromString("1.2")
	sizeMultiplierDbl  = decimal.RequireFromString("1.1")
)

var refurbishFactors = map[enums.FurnitureKind]decimal.Decimal{
	enums.FurnitureKindBed:    decimal.RequireFromString("0.8"),
	enums.FurnitureKindChair:  decimal.RequireFromString("0.8"),
	enums.FurnitureKindSofa:   decimal.RequireFromString("0.75"),
	enums.FurnitureKindTables: decimal.RequireFromString("0.85"),
	enums.FurnitureKindMisc:   decimal.RequireFromString("0.8"),
}

// CalculateCost returns the sale-ready amount of f. It only reads f's own
// fields and never returns a negative amount.
func CalculateCost(f *models.Furniture) (decimal.Decimal, error) {
	if f == nil {
		return decimal.Zero, fmt.Errorf("furniture is nil")
	}
	if err := checkVariant(f); err != nil {
		return decimal.Zero, err
	}

	cost := decimal.NewFromFloat(f.Price)
	switch f.Kind {
	case enums.FurnitureKindBed:
		b := f.Bed
		if b.HasHeadboard {
			cost = cost.Add(bedHeadboardCost)
		}
		if b.HasFootboard {
			cost = cost.Add(bedFootboardCost)
		}
		if b.HasStorageDrawers {
			cost = cost.Add(bedStorageCost)
		}
		if b.IsAdjustable {
			cost = cost.Add(bedAdjustableCost)
		}
		cost = cost.Mul(SizeMultiplier(b.Size))
	case enums.FurnitureKindChair:
		c := f.Chair
		if c.HasArmrests {
			cost = cost.Add(chairArmrestCost)
		}
		if c.IsAdjustable {
			cost = cost.Add(chairAdjustCost)
		}
		if c.HasWheels {
			cost = cost.Add(chairWheelsCost)
		}
	case enums.FurnitureKindSofa:
		s := f.Sofa
		if s.IsConvertible {
			cost = cost.Add(sofaConvertCost)
		}
		if s.HasRecliners {
			cost = cost.Add(sofaReclinerCost)
		}
		cost = cost.Add(sofaCushionCost.Mul(decimal.NewFromInt(int64(s.NumberOfCushions))))
	case enums.FurnitureKindTables:
		t := f.Table
		if t.IsExtendable {
			cost = cost.Add(tableExtendCost)
		}
		if t.HasGlassTop {
			cost = cost.Add(tableGlassTopCost)
		}
		cost = cost.Add(tablePerSeatCost.Mul(decimal.NewFromInt(int64(t.SeatingCapacity))))
	case enums.FurnitureKindMisc:
		cost = cost.Add(ModifierTotal(f.Misc))
	}

	if cost.IsNegative() {
		return decimal.Zero, nil
	}
	return cost, nil
}

// SizeMultiplier maps a bed size label to its price multiplier. Unknown or
// empty sizes leave the price unchanged.
func SizeMultiplier(size string) decimal.Decimal {
	switch strings.ToLower(strings.TrimSpace(size)) {
	case "king":
		return sizeMultiplierKing
	case "queen":
		return sizeMultiplierQn
	case "double":
		return sizeMultiplierDbl
	default:
		return decimal.NewFromInt(1)
	}
}

// ModifierTotal sums the price modifiers of a misc piece.
func ModifierTotal(m *models.MiscFurniture) decimal.Decimal {
	total := decimal.Zero
	if m == nil {
		return total
	}
	for _, mod := range m.PriceModifiers {
		total = total.Add(decimal.NewFromFloat(mod.Value))
	}
	return total
}

// RefurbishFactor returns the multiplier Refurbish applies for kind.
func RefurbishFactor(kind enums.FurnitureKind) (decimal.Decimal, bool) {
	factor, ok := refurbishFactors[kind]
	return factor, ok
}

// Refurbish marks the piece down in place. Repeated calls compound.
func Refurbish(f *models.Furniture) error {
	if f == nil {
		return fmt.Errorf("furniture is nil")
	}
	factor, ok := RefurbishFactor(f.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrVariantMismatch, f.Kind)
	}
	f.Price = decimal.NewFromFloat(f.Price).Mul(factor).Round(2).InexactFloat64()
	return nil
}

func checkVariant(f *models.Furniture) error {
	var present bool
	switch f.Kind {
	case enums.FurnitureKindBed:
		present = f.Bed != nil
	case enums.FurnitureKindChair:
		present = f.Chair != nil
	case enums.FurnitureKindSofa:
		present = f.Sofa != nil
	case enums.FurnitureKindTables:
		present = f.Table != nil
	case enums.FurnitureKindMisc:
		present = f.Misc != nil
	}
	if !present {
		return fmt.Errorf("%w: %q", ErrVariantMismatch, f.Kind)
	}
	return nil
}
