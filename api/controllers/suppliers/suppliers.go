package suppliers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/responses"
	"github.com/totofurniture/furnistore-backend/api/validators"
	suppliersvc "github.com/totofurniture/furnistore-backend/internal/suppliers"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func List(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		find(svc, logg, w, r, filter)
	}
}

// Preset serves a fixed lookup such as all manufacturers.
func Preset(filter func() suppliersvc.Filter, svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		find(svc, logg, w, r, filter())
	}
}

func find(svc suppliersvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, filter suppliersvc.Filter) {
	items, err := svc.Find(r.Context(), filter)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, items)
}

func Create(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req supplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(logg.WithEntity(r.Context(), "supplier", supplier.ID.String()), "supplier created")
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

func Update(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req supplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		input, err := req.toInput()
		if err != nil {
			return nil, err
		}
		return svc.Update(r.Context(), id, input)
	})
}

func Get(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		supplier, err := svc.Get(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, pkgerrors.NotFound("supplier", id.String())
		}
		return supplier, nil
	})
}

func Delete(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func Score(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Score(r.Context(), id)
	})
}

func Furniture(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Furniture(r.Context(), id)
	})
}

func OrderTotal(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req orderTotalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		ids, err := parseIDs(req.FurnitureIDs)
		if err != nil {
			return nil, err
		}
		return svc.OrderTotal(r.Context(), id, ids)
	})
}

// ServiceCheck reports whether the supplier serves ?city=.
func ServiceCheck(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		city := validators.QueryString(r, "city")
		if city == "" {
			return nil, pkgerrors.Invalid("city", "city is required")
		}
		ok, err := svc.CanServiceLocation(r.Context(), id, city)
		if err != nil {
			return nil, err
		}
		return map[string]any{"supplier_id": id, "city": city, "can_service": ok}, nil
	})
}

func Hold(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req idsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ids, err := parseIDs(req.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.MarkOnHold(r.Context(), ids)
		if err != nil && updated == 0 {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err != nil {
			logg.Error(logg.WithField(r.Context(), "updated", updated), "some suppliers were not put on hold", err)
		}
		responses.WriteSuccess(w, map[string]int{"updated": updated})
	}
}

func AddWoodType(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return woodTypeHandler(logg, svc.AddWoodType)
}

func RemoveWoodType(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return woodTypeHandler(logg, svc.RemoveWoodType)
}

func woodTypeHandler(logg *logger.Logger, fn func(ctx context.Context, id uuid.UUID, wood enums.WoodType) (*suppliersvc.SupplierDTO, error)) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		wood, err := enums.ParseWoodType(chi.URLParam(r, "wood"))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wood type")
		}
		return fn(r.Context(), id, wood)
	})
}

func AddSpecialty(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, "specialty", svc.AddSpecialty)
}

func RemoveSpecialty(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, "specialty", svc.RemoveSpecialty)
}

func AddServiceCity(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, "city", svc.AddServiceCity)
}

func RemoveServiceCity(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, "city", svc.RemoveServiceCity)
}

func listHandler(logg *logger.Logger, param string, fn func(ctx context.Context, id uuid.UUID, value string) (*suppliersvc.SupplierDTO, error)) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		value := validators.SanitizeString(chi.URLParam(r, param), 100)
		if value == "" {
			return nil, pkgerrors.Invalid(param, "must not be empty")
		}
		return fn(r.Context(), id, value)
	})
}

func byID(logg *logger.Logger, fn func(r *http.Request, id uuid.UUID) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := fn(r, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
