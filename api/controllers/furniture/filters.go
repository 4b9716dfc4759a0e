package furniture

import (
	"net/http"
	"strings"

	"github.com/totofurniture/furnistore-backend/api/validators"
	furnituresvc "github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

// parseFilter reads the shared catalogue filters from the query string.
func parseFilter(r *http.Request) (furnituresvc.Filter, error) {
	filter := furnituresvc.Filter{
		NameContains:         validators.QueryString(r, "name"),
		ManufacturerContains: validators.QueryString(r, "manufacturer"),
		MaterialContains:     validators.QueryString(r, "material"),
		SupplierCity:         validators.QueryString(r, "supplier_city"),
	}
	if raw := validators.QueryString(r, "kind"); raw != "" {
		kind, err := enums.ParseFurnitureKind(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind")
		}
		filter.Kind = &kind
	}
	if raw := validators.QueryString(r, "wood_type"); raw != "" {
		wood, err := enums.ParseWoodType(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wood_type")
		}
		filter.WoodType = &wood
	}
	if raw := validators.QueryString(r, "supplier_type"); raw != "" {
		st, err := enums.ParseSupplierType(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier_type")
		}
		filter.SupplierType = &st
	}

	var err error
	if filter.SupplierID, err = validators.OptionalQueryUUID(r, "supplier_id"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = validators.OptionalQueryFloat(r, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = validators.OptionalQueryFloat(r, "max_price"); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseVariantFilter adds the filters specific to kind.
func parseVariantFilter(r *http.Request, kind enums.FurnitureKind) (furnituresvc.Filter, error) {
	filter, err := parseFilter(r)
	if err != nil {
		return filter, err
	}
	filter.Kind = &kind

	switch kind {
	case enums.FurnitureKindBed:
		b := &filter.Bed
		b.SizeContains = validators.QueryString(r, "size")
		b.MattressTypeContains = validators.QueryString(r, "mattress_type")
		if raw := validators.QueryString(r, "sizes"); raw != "" {
			for _, s := range strings.Split(raw, ",") {
				if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
					b.Sizes = append(b.Sizes, s)
				}
			}
		}
		err = firstError(
			boolQuery(r, "has_headboard", &b.HasHeadboard),
			boolQuery(r, "has_footboard", &b.HasFootboard),
			boolQuery(r, "has_storage_drawers", &b.HasStorageDrawers),
			boolQuery(r, "is_adjustable", &b.IsAdjustable),
		)
	case enums.FurnitureKindChair:
		c := &filter.Chair
		c.StyleContains = validators.QueryString(r, "style")
		err = firstError(
			boolQuery(r, "has_armrests", &c.HasArmrests),
			boolQuery(r, "is_adjustable", &c.IsAdjustable),
			boolQuery(r, "has_wheels", &c.HasWheels),
			intQuery(r, "min_seating", &c.MinSeating),
		)
	case enums.FurnitureKindSofa:
		s := &filter.Sofa
		s.UpholsteryContains = validators.QueryString(r, "upholstery")
		err = firstError(
			boolQuery(r, "is_convertible", &s.IsConvertible),
			boolQuery(r, "has_recliners", &s.HasRecliners),
			intQuery(r, "min_seating", &s.MinSeating),
			intQuery(r, "cushions", &s.Cushions),
		)
	case enums.FurnitureKindTables:
		t := &filter.Table
		t.Shape = validators.QueryString(r, "shape")
		err = firstError(
			boolQuery(r, "is_extendable", &t.IsExtendable),
			boolQuery(r, "has_glass_top", &t.HasGlassTop),
			intQuery(r, "min_seating", &t.MinSeating),
			floatQuery(r, "height_below", &t.HeightBelow),
			floatQuery(r, "length", &t.Length),
			floatQuery(r, "width", &t.Width),
		)
	case enums.FurnitureKindMisc:
		m := &filter.Misc
		m.CategoryContains = validators.QueryString(r, "category")
		m.DescriptionContains = validators.QueryString(r, "description")
		m.AttributeName = validators.QueryString(r, "attribute")
		m.ModifierName = validators.QueryString(r, "modifier")
		if raw := r.URL.Query().Get("attribute_value"); raw != "" {
			m.AttributeValue = &raw
		}
		err = floatQuery(r, "modifier_above", &m.ModifierAbove)
	}
	return filter, err
}

func boolQuery(r *http.Request, key string, dst **bool) error {
	v, err := validators.OptionalQueryBool(r, key)
	*dst = v
	return err
}

func intQuery(r *http.Request, key string, dst **int) error {
	v, err := validators.OptionalQueryInt(r, key)
	*dst = v
	return err
}

func floatQuery(r *http.Request, key string, dst **float64) error {
	v, err := validators.OptionalQueryFloat(r, key)
	*dst = v
	return err
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
