package furniture

import (
	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Filter narrows furniture lookups. Zero-valued fields are ignored; string
// "contains" fields match case-insensitively.
type Filter struct {
	Kind                 *enums.FurnitureKind
	NameContains         string
	ManufacturerContains string
	MaterialContains     string
	WoodType             *enums.WoodType
	SupplierID           *uuid.UUID
	SupplierCity         string
	SupplierType         *enums.SupplierType
	MinPrice             *float64
	MaxPrice             *float64

	Bed   BedFilter
	Chair ChairFilter
	Sofa  SofaFilter
	Table TableFilter
	Misc  MiscFilter
}

type BedFilter struct {
	SizeContains         string
	Sizes                []string
	MattressTypeContains string
	HasHeadboard         *bool
	HasFootboard         *bool
	HasStorageDrawers    *bool
	IsAdjustable         *bool
}

func (f BedFilter) isZero() bool {
	return f.SizeContains == "" && len(f.Sizes) == 0 && f.MattressTypeContains == "" &&
		f.HasHeadboard == nil && f.HasFootboard == nil && f.HasStorageDrawers == nil && f.IsAdjustable == nil
}

type ChairFilter struct {
	StyleContains string
	HasArmrests   *bool
	IsAdjustable  *bool
	HasWheels     *bool
	MinSeating    *int
}

func (f ChairFilter) isZero() bool {
	return f.StyleContains == "" && f.HasArmrests == nil && f.IsAdjustable == nil && f.HasWheels == nil && f.MinSeating == nil
}

type SofaFilter struct {
	UpholsteryContains string
	IsConvertible      *bool
	HasRecliners       *bool
	MinSeating         *int
	Cushions           *int
}

func (f SofaFilter) isZero() bool {
	return f.UpholsteryContains == "" && f.IsConvertible == nil && f.HasRecliners == nil && f.MinSeating == nil && f.Cushions == nil
}

type TableFilter struct {
	Shape        string
	IsExtendable *bool
	HasGlassTop  *bool
	MinSeating   *int
	HeightBelow  *float64
	Length       *float64
	Width        *float64
}

func (f TableFilter) isZero() bool {
	return f.Shape == "" && f.IsExtendable == nil && f.HasGlassTop == nil && f.MinSeating == nil &&
		f.HeightBelow == nil && f.Length == nil && f.Width == nil
}

type MiscFilter struct {
	CategoryContains    string
	DescriptionContains string
	AttributeName       string
	AttributeValue      *string
	ModifierName        string
	ModifierAbove       *float64
}

func (f MiscFilter) isZero() bool {
	return f.CategoryContains == "" && f.DescriptionContains == "" && f.AttributeName == "" &&
		f.AttributeValue == nil && f.ModifierName == "" && f.ModifierAbove == nil
}

const (
	DiningTableMinSeats = 6
	CoffeeTableMaxCM    = 50.0
)

func kindPtr(k enums.FurnitureKind) *enums.FurnitureKind { return &k }
func boolPtr(v bool) *bool                               { return &v }

// PremiumBeds: king or queen beds with both headboard and footboard.
func PremiumBeds() Filter {
	return Filter{Kind: kindPtr(enums.FurnitureKindBed), Bed: BedFilter{
		Sizes:        []string{"king", "queen"},
		HasHeadboard: boolPtr(true),
		HasFootboard: boolPtr(true),
	}}
}

func StorageBeds() Filter {
	return Filter{Kind: kindPtr(enums.FurnitureKindBed), Bed: BedFilter{HasStorageDrawers: boolPtr(true)}}
}

func OfficeChairs() Filter {
	return Filter{Kind: kindPtr(enums.FurnitureKindChair), Chair: ChairFilter{HasWheels: boolPtr(true), IsAdjustable: boolPtr(true)}}
}

func DiningChairs() Filter {
	return Filter{Kind: kindPtr(enums.FurnitureKindChair), Chair: ChairFilter{HasWheels: boolPtr(false), StyleContains: "dining"}}
}

func LuxurySofas() Filter {
	return Filter{Kind: kindPtr(enums.FurnitureKindSofa), Sofa: SofaFilter{UpholsteryContains: "leather", HasRecliners: boolPtr(true)}}
}

func ConvertibleSofas() Filter {
	return Filter{Kind: kindPtr(enums.FurnitureKindSofa), Sofa: SofaFilter{IsConvertible: boolPtr(true)}}
}

func ReclinerSofas() Filter {
	return Filter{Kind: kindPtr(enums.FurnitureKindSofa), Sofa: SofaFilter{HasRecliners: boolPtr(true)}}
}

// DiningTables returns tables seating at least minSeats (DiningTableMinSeats when <= 0).
func DiningTables(minSeats int) Filter {
	if minSeats <= 0 {
		minSeats = DiningTableMinSeats
	}
	return Filter{Kind: kindPtr(enums.FurnitureKindTables), Table: TableFilter{MinSeating: &minSeats}}
}

func CoffeeTables() Filter {
	height := CoffeeTableMaxCM
	return Filter{Kind: kindPtr(enums.FurnitureKindTables), Table: TableFilter{HeightBelow: &height}}
}
