package furniture

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/validators"
	furnituresvc "github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

const maxTextLen = 255

type baseRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Price        float64 `json:"price" validate:"gte=0"`
	Material     *string `json:"material,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	WoodType     *string `json:"wood_type,omitempty"`
	SupplierID   *string `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
}

func (b baseRequest) toInput(kind enums.FurnitureKind) (furnituresvc.CreateInput, error) {
	input := furnituresvc.CreateInput{
		Kind:         kind,
		Name:         validators.SanitizeString(b.Name, maxTextLen),
		Price:        b.Price,
		Material:     validators.SanitizeOptional(b.Material, maxTextLen),
		Manufacturer: validators.SanitizeOptional(b.Manufacturer, maxTextLen),
	}
	if b.WoodType != nil && strings.TrimSpace(*b.WoodType) != "" {
		wood, err := enums.ParseWoodType(*b.WoodType)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wood_type")
		}
		input.WoodType = &wood
	}
	if b.SupplierID != nil && *b.SupplierID != "" {
		id, err := uuid.Parse(*b.SupplierID)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier_id")
		}
		input.SupplierID = &id
	}
	return input, nil
}

type bedRequest struct {
	baseRequest
	Size              string  `json:"size" validate:"required"`
	HasHeadboard      bool    `json:"has_headboard"`
	HasFootboard      bool    `json:"has_footboard"`
	HasStorageDrawers bool    `json:"has_storage_drawers"`
	MattressType      *string `json:"mattress_type,omitempty"`
	IsAdjustable      bool    `json:"is_adjustable"`
}

type chairRequest struct {
	baseRequest
	SeatingCapacity int     `json:"seating_capacity" validate:"gte=0"`
	HasArmrests     bool    `json:"has_armrests"`
	ChairStyle      *string `json:"chair_style,omitempty"`
	IsAdjustable    bool    `json:"is_adjustable"`
	HasWheels       bool    `json:"has_wheels"`
}

type sofaRequest struct {
	baseRequest
	SeatingCapacity  int     `json:"seating_capacity" validate:"gte=0"`
	IsConvertible    bool    `json:"is_convertible"`
	UpholsteryType   *string `json:"upholstery_type,omitempty"`
	NumberOfCushions int     `json:"number_of_cushions" validate:"gte=0"`
	HasRecliners     bool    `json:"has_recliners"`
}

type tableRequest struct {
	baseRequest
	Shape           *string `json:"shape,omitempty"`
	SeatingCapacity int     `json:"seating_capacity" validate:"gte=0"`
	IsExtendable    bool    `json:"is_extendable"`
	Length          float64 `json:"length" validate:"gte=0"`
	Width           float64 `json:"width" validate:"gte=0"`
	Height          float64 `json:"height" validate:"gte=0"`
	HasGlassTop     bool    `json:"has_glass_top"`
}

type namedStringRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

type namedAmountRequest struct {
	Name  string  `json:"name" validate:"required"`
	Value float64 `json:"value"`
}

type miscRequest struct {
	baseRequest
	Category       *string              `json:"category,omitempty"`
	Description    *string              `json:"description,omitempty"`
	Attributes     []namedStringRequest `json:"attributes,omitempty" validate:"dive"`
	PriceModifiers []namedAmountRequest `json:"price_modifiers,omitempty" validate:"dive"`
}

// decodeInput reads the variant body matching kind.
func decodeInput(r *http.Request, kind enums.FurnitureKind) (furnituresvc.CreateInput, error) {
	switch kind {
	case enums.FurnitureKindBed:
		var req bedRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return furnituresvc.CreateInput{}, err
		}
		input, err := req.toInput(kind)
		input.Bed = &furnituresvc.BedInput{
			Size:              strings.ToLower(validators.SanitizeString(req.Size, 32)),
			HasHeadboard:      req.HasHeadboard,
			HasFootboard:      req.HasFootboard,
			HasStorageDrawers: req.HasStorageDrawers,
			MattressType:      validators.SanitizeOptional(req.MattressType, maxTextLen),
			IsAdjustable:      req.IsAdjustable,
		}
		return input, err
	case enums.FurnitureKindChair:
		var req chairRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return furnituresvc.CreateInput{}, err
		}
		input, err := req.toInput(kind)
		input.Chair = &furnituresvc.ChairInput{
			SeatingCapacity: req.SeatingCapacity,
			HasArmrests:     req.HasArmrests,
			ChairStyle:      validators.SanitizeOptional(req.ChairStyle, maxTextLen),
			IsAdjustable:    req.IsAdjustable,
			HasWheels:       req.HasWheels,
		}
		return input, err
	case enums.FurnitureKindSofa:
		var req sofaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return furnituresvc.CreateInput{}, err
		}
		input, err := req.toInput(kind)
		input.Sofa = &furnituresvc.SofaInput{
			SeatingCapacity:  req.SeatingCapacity,
			IsConvertible:    req.IsConvertible,
			UpholsteryType:   validators.SanitizeOptional(req.UpholsteryType, maxTextLen),
			NumberOfCushions: req.NumberOfCushions,
			HasRecliners:     req.HasRecliners,
		}
		return input, err
	case enums.FurnitureKindTables:
		var req tableRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return furnituresvc.CreateInput{}, err
		}
		input, err := req.toInput(kind)
		input.Table = &furnituresvc.TableInput{
			Shape:           validators.SanitizeOptional(req.Shape, 64),
			SeatingCapacity: req.SeatingCapacity,
			IsExtendable:    req.IsExtendable,
			Length:          req.Length,
			Width:           req.Width,
			Height:          req.Height,
			HasGlassTop:     req.HasGlassTop,
		}
		return input, err
	case enums.FurnitureKindMisc:
		var req miscRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return furnituresvc.CreateInput{}, err
		}
		input, err := req.toInput(kind)
		misc := &furnituresvc.MiscInput{
			Category:    validators.SanitizeOptional(req.Category, maxTextLen),
			Description: validators.SanitizeOptional(req.Description, 2000),
		}
		for _, a := range req.Attributes {
			misc.Attributes = append(misc.Attributes, furnituresvc.NamedString{Name: strings.TrimSpace(a.Name), Value: a.Value})
		}
		for _, m := range req.PriceModifiers {
			misc.PriceModifiers = append(misc.PriceModifiers, furnituresvc.NamedAmount{Name: strings.TrimSpace(m.Name), Value: m.Value})
		}
		input.Misc = misc
		return input, err
	}
	return furnituresvc.CreateInput{}, pkgerrors.Invalid("kind", "unknown furniture kind")
}

type assignSupplierRequest struct {
	SupplierID *string `json:"supplier_id" validate:"omitempty,uuid"`
}

type attributeRequest struct {
	Value string `json:"value"`
}

type modifierRequest struct {
	Value float64 `json:"value"`
}
