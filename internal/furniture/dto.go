package furniture

import (
	"time"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// FurnitureDTO is the API payload for a furniture record. Exactly one of the
// variant blocks is set.
type FurnitureDTO struct {
	ID           uuid.UUID           `json:"id"`
	Kind         enums.FurnitureKind `json:"kind"`
	Name         string              `json:"name"`
	Slug         string              `json:"slug"`
	Price        float64             `json:"price"`
	Material     *string             `json:"material,omitempty"`
	Manufacturer *string             `json:"manufacturer,omitempty"`
	WoodType     *enums.WoodType     `json:"wood_type,omitempty"`
	SupplierID   *uuid.UUID          `json:"supplier_id,omitempty"`
	Bed          *BedDTO             `json:"bed,omitempty"`
	Chair        *ChairDTO           `json:"chair,omitempty"`
	Sofa         *SofaDTO            `json:"sofa,omitempty"`
	Table        *TableDTO           `json:"table,omitempty"`
	Misc         *MiscDTO            `json:"misc,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type BedDTO struct {
	Size              string  `json:"size"`
	HasHeadboard      bool    `json:"has_headboard"`
	HasFootboard      bool    `json:"has_footboard"`
	HasStorageDrawers bool    `json:"has_storage_drawers"`
	MattressType      *string `json:"mattress_type,omitempty"`
	IsAdjustable      bool    `json:"is_adjustable"`
}

type ChairDTO struct {
	SeatingCapacity int     `json:"seating_capacity"`
	HasArmrests     bool    `json:"has_armrests"`
	ChairStyle      *string `json:"chair_style,omitempty"`
	IsAdjustable    bool    `json:"is_adjustable"`
	HasWheels       bool    `json:"has_wheels"`
}

type SofaDTO struct {
	SeatingCapacity  int     `json:"seating_capacity"`
	IsConvertible    bool    `json:"is_convertible"`
	UpholsteryType   *string `json:"upholstery_type,omitempty"`
	NumberOfCushions int     `json:"number_of_cushions"`
	HasRecliners     bool    `json:"has_recliners"`
}

type TableDTO struct {
	Shape           *string `json:"shape,omitempty"`
	SeatingCapacity int     `json:"seating_capacity"`
	IsExtendable    bool    `json:"is_extendable"`
	Length          float64 `json:"length"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	HasGlassTop     bool    `json:"has_glass_top"`
}

// MiscDTO keeps attributes and modifiers as ordered lists.
type MiscDTO struct {
	Category       *string       `json:"category,omitempty"`
	Description    *string       `json:"description,omitempty"`
	Attributes     []NamedString `json:"attributes"`
	PriceModifiers []NamedAmount `json:"price_modifiers"`
}

type NamedString struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type NamedAmount struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// QuoteDTO is the priced view of one piece.
type QuoteDTO struct {
	FurnitureID     uuid.UUID           `json:"furniture_id"`
	Kind            enums.FurnitureKind `json:"kind"`
	Price           float64             `json:"price"`
	Cost            string              `json:"cost"`
	DiscountRate    string              `json:"discount_rate"`
	DiscountedCost  string              `json:"discounted_cost"`
	MiscFinalPrice  *string             `json:"misc_final_price,omitempty"`
	RefurbishFactor string              `json:"refurbish_factor"`
}

type TopSellingDTO struct {
	Furniture FurnitureDTO `json:"furniture"`
	Sold      int64        `json:"sold"`
}

// ListResult is one cursor page of furniture.
type ListResult struct {
	Items  []FurnitureDTO `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

type ChairAdviceDTO struct {
	MaintenanceSchedule string  `json:"maintenance_schedule"`
	DiscountRate        float64 `json:"discount_rate"`
}

type SofaAdviceDTO struct {
	CleaningProducts   []string           `json:"cleaning_products"`
	DeliveryDifficulty DeliveryDifficulty `json:"delivery_difficulty"`
}

type TableAdviceDTO struct {
	Accessories        []string `json:"accessories"`
	SpaceRequirementM2 float64  `json:"space_requirement_m2"`
}

type MiscAdviceDTO struct {
	SuggestedCategory string `json:"suggested_category"`
}

// NewFurnitureDTO flattens the model into its API shape.
func NewFurnitureDTO(f *models.Furniture) *FurnitureDTO {
	dto := &FurnitureDTO{
		ID:           f.ID,
		Kind:         f.Kind,
		Name:         f.Name,
		Slug:         f.Slug,
		Price:        f.Price,
		Material:     f.Material,
		Manufacturer: f.Manufacturer,
		WoodType:     f.WoodType,
		SupplierID:   f.SupplierID,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	switch {
	case f.Bed != nil:
		dto.Bed = &BedDTO{
			Size:              f.Bed.Size,
			HasHeadboard:      f.Bed.HasHeadboard,
			HasFootboard:      f.Bed.HasFootboard,
			HasStorageDrawers: f.Bed.HasStorageDrawers,
			MattressType:      f.Bed.MattressType,
			IsAdjustable:      f.Bed.IsAdjustable,
		}
	case f.Chair != nil:
		dto.Chair = &ChairDTO{
			SeatingCapacity: f.Chair.SeatingCapacity,
			HasArmrests:     f.Chair.HasArmrests,
			ChairStyle:      f.Chair.ChairStyle,
			IsAdjustable:    f.Chair.IsAdjustable,
			HasWheels:       f.Chair.HasWheels,
		}
	case f.Sofa != nil:
		dto.Sofa = &SofaDTO{
			SeatingCapacity:  f.Sofa.SeatingCapacity,
			IsConvertible:    f.Sofa.IsConvertible,
			UpholsteryType:   f.Sofa.UpholsteryType,
			NumberOfCushions: f.Sofa.NumberOfCushions,
			HasRecliners:     f.Sofa.HasRecliners,
		}
	case f.Table != nil:
		dto.Table = &TableDTO{
			Shape:           f.Table.Shape,
			SeatingCapacity: f.Table.SeatingCapacity,
			IsExtendable:    f.Table.IsExtendable,
			Length:          f.Table.Length,
			Width:           f.Table.Width,
			Height:          f.Table.Height,
			HasGlassTop:     f.Table.HasGlassTop,
		}
	case f.Misc != nil:
		misc := &MiscDTO{
			Category:       f.Misc.Category,
			Description:    f.Misc.Description,
			Attributes:     make([]NamedString, 0, len(f.Misc.Attributes)),
			PriceModifiers: make([]NamedAmount, 0, len(f.Misc.PriceModifiers)),
		}
		for _, attr := range f.Misc.Attributes {
			misc.Attributes = append(misc.Attributes, NamedString{Name: attr.Name, Value: attr.Value})
		}
		for _, mod := range f.Misc.PriceModifiers {
			misc.PriceModifiers = append(misc.PriceModifiers, NamedAmount{Name: mod.Name, Value: mod.Value})
		}
		dto.Misc = misc
	}
	return dto
}

func toDTOs(rows []models.Furniture) []FurnitureDTO {
	out := make([]FurnitureDTO, len(rows))
	for i := range rows {
		out[i] = *NewFurnitureDTO(&rows[i])
	}
	return out
}
