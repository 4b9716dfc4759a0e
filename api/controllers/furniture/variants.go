package furniture

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/responses"
	"github.com/totofurniture/furnistore-backend/api/validators"
	furnituresvc "github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

// Create handles POST on a variant collection such as /beds.
func Create(kind enums.FurnitureKind, svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeInput(r, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(logg.WithEntity(r.Context(), string(kind), item.ID.String()), "furniture created")
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// Update replaces a variant record; the kind in the path must match the stored one.
func Update(kind enums.FurnitureKind, svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		input, err := decodeInput(r, kind)
		if err != nil {
			return nil, err
		}
		return svc.Update(r.Context(), id, input)
	})
}

// ListVariant pages one kind with its variant filters applied.
func ListVariant(kind enums.FurnitureKind, svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseVariantFilter(r, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listPage(svc, logg, w, r, filter)
	}
}

// Preset serves a named lookup such as premium beds.
func Preset(preset func(r *http.Request) (furnituresvc.Filter, error), svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := preset(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.Find(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// Static adapts a fixed preset filter.
func Static(filter func() furnituresvc.Filter) func(*http.Request) (furnituresvc.Filter, error) {
	return func(*http.Request) (furnituresvc.Filter, error) {
		return filter(), nil
	}
}

// DiningTablesPreset reads the optional min_seats query parameter.
func DiningTablesPreset(r *http.Request) (furnituresvc.Filter, error) {
	seats, err := validators.ParseQueryInt(r, "min_seats", furnituresvc.DiningTableMinSeats, 1, 100)
	if err != nil {
		return furnituresvc.Filter{}, err
	}
	return furnituresvc.DiningTables(seats), nil
}

func ChairMaintenance(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.ChairAdvice(r.Context(), id)
	})
}

func SofaCare(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.SofaAdvice(r.Context(), id)
	})
}

func TableAccessories(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.TableAdvice(r.Context(), id)
	})
}

func MiscCategorySuggestion(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.MiscAdvice(r.Context(), id)
	})
}

func SetMiscAttribute(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req attributeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return svc.SetMiscAttribute(r.Context(), id, chi.URLParam(r, "name"), req.Value)
	})
}

func RemoveMiscAttribute(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.RemoveMiscAttribute(r.Context(), id, chi.URLParam(r, "name"))
	})
}

func SetMiscPriceModifier(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req modifierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return svc.SetMiscPriceModifier(r.Context(), id, chi.URLParam(r, "name"), req.Value)
	})
}

func RemoveMiscPriceModifier(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.RemoveMiscPriceModifier(r.Context(), id, chi.URLParam(r, "name"))
	})
}
