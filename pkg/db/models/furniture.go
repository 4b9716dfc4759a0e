package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Furniture is the shared record of every sellable piece. Exactly one of the
// variant pointers is populated and it must match Kind.
type Furniture struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Kind         enums.FurnitureKind `gorm:"column:kind;not null;index"`
	Name         string              `gorm:"column:name;not null"`
	Slug         string              `gorm:"column:slug;not null;uniqueIndex"`
	Price        float64             `gorm:"column:price;type:numeric(12,2);not null"`
	Material     *string             `gorm:"column:material"`
	Manufacturer *string             `gorm:"column:manufacturer"`
	WoodType     *enums.WoodType     `gorm:"column:wood_type"`
	SupplierID   *uuid.UUID          `gorm:"column:supplier_id;type:uuid;index"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Bed   *Bed           `gorm:"foreignKey:FurnitureID;constraint:OnDelete:CASCADE"`
	Chair *Chair         `gorm:"foreignKey:FurnitureID;constraint:OnDelete:CASCADE"`
	Sofa  *Sofa          `gorm:"foreignKey:FurnitureID;constraint:OnDelete:CASCADE"`
	Table *Table         `gorm:"foreignKey:FurnitureID;constraint:OnDelete:CASCADE"`
	Misc  *MiscFurniture `gorm:"foreignKey:FurnitureID;constraint:OnDelete:CASCADE"`
}

func (Furniture) TableName() string { return "furniture" }

func (f *Furniture) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Bed holds the bed-specific attributes of a furniture record.
type Bed struct {
	FurnitureID       uuid.UUID `gorm:"column:furniture_id;type:uuid;primaryKey"`
	Size              string    `gorm:"column:size"`
	HasHeadboard      bool      `gorm:"column:has_headboard;not null"`
	HasFootboard      bool      `gorm:"column:has_footboard;not null"`
	HasStorageDrawers bool      `gorm:"column:has_storage_drawers;not null"`
	MattressType      *string   `gorm:"column:mattress_type"`
	IsAdjustable      bool      `gorm:"column:is_adjustable;not null"`
}

func (Bed) TableName() string { return "beds" }

type Chair struct {
	FurnitureID     uuid.UUID `gorm:"column:furniture_id;type:uuid;primaryKey"`
	SeatingCapacity int       `gorm:"column:seating_capacity;not null"`
	HasArmrests     bool      `gorm:"column:has_armrests;not null"`
	ChairStyle      *string   `gorm:"column:chair_style"`
	IsAdjustable    bool      `gorm:"column:is_adjustable;not null"`
	HasWheels       bool      `gorm:"column:has_wheels;not null"`
}

func (Chair) TableName() string { return "chairs" }

type Sofa struct {
	FurnitureID      uuid.UUID `gorm:"column:furniture_id;type:uuid;primaryKey"`
	SeatingCapacity  int       `gorm:"column:seating_capacity;not null"`
	IsConvertible    bool      `gorm:"column:is_convertible;not null"`
	UpholsteryType   *string   `gorm:"column:upholstery_type"`
	NumberOfCushions int       `gorm:"column:number_of_cushions;not null"`
	HasRecliners     bool      `gorm:"column:has_recliners;not null"`
}

func (Sofa) TableName() string { return "sofas" }

// Table is the tables variant. Dimensions are in centimetres.
type Table struct {
	FurnitureID     uuid.UUID `gorm:"column:furniture_id;type:uuid;primaryKey"`
	Shape           *string   `gorm:"column:shape"`
	SeatingCapacity int       `gorm:"column:seating_capacity;not null"`
	IsExtendable    bool      `gorm:"column:is_extendable;not null"`
	Length          float64   `gorm:"column:length;not null"`
	Width           float64   `gorm:"column:width;not null"`
	Height          float64   `gorm:"column:height;not null"`
	HasGlassTop     bool      `gorm:"column:has_glass_top;not null"`
}

func (Table) TableName() string { return "furniture_tables" }

// MiscFurniture covers pieces that do not fit the fixed variants. Attributes
// and price modifiers keep insertion order through their Position column.
type MiscFurniture struct {
	FurnitureID    uuid.UUID           `gorm:"column:furniture_id;type:uuid;primaryKey"`
	Category       *string             `gorm:"column:category"`
	Description    *string             `gorm:"column:description"`
	Attributes     []MiscAttribute     `gorm:"foreignKey:FurnitureID;references:FurnitureID;constraint:OnDelete:CASCADE"`
	PriceModifiers []MiscPriceModifier `gorm:"foreignKey:FurnitureID;references:FurnitureID;constraint:OnDelete:CASCADE"`
}

func (MiscFurniture) TableName() string { return "misc_furniture" }

type MiscAttribute struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FurnitureID uuid.UUID `gorm:"column:furniture_id;type:uuid;not null;uniqueIndex:idx_misc_attribute_name"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:idx_misc_attribute_name"`
	Value       string    `gorm:"column:value;not null"`
	Position    int       `gorm:"column:position;not null"`
}

func (MiscAttribute) TableName() string { return "misc_attributes" }

func (a *MiscAttribute) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type MiscPriceModifier struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FurnitureID uuid.UUID `gorm:"column:furniture_id;type:uuid;not null;uniqueIndex:idx_misc_modifier_name"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:idx_misc_modifier_name"`
	Value       float64   `gorm:"column:value;type:numeric(12,2);not null"`
	Position    int       `gorm:"column:position;not null"`
}

func (MiscPriceModifier) TableName() string { return "misc_price_modifiers" }

func (m *MiscPriceModifier) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
