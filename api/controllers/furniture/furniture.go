package furniture

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/responses"
	"github.com/totofurniture/furnistore-backend/api/validators"
	furnituresvc "github.com/totofurniture/furnistore-backend/internal/furniture"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/pagination"
)

// List returns a cursor page of the catalogue.
func List(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listPage(svc, logg, w, r, filter)
	}
}

func listPage(svc furnituresvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, filter furnituresvc.Filter) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	page, err := svc.List(r.Context(), furnituresvc.ListInput{
		Filter:     filter,
		Pagination: pagination.Params{Limit: limit, Cursor: validators.QueryString(r, "cursor")},
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WritePage(w, page.Items, page.Cursor)
}

func Get(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.NotFound("furniture", id.String()))
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func GetBySlug(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := strings.TrimSpace(chi.URLParam(r, "slug"))
		item, err := svc.GetBySlug(r.Context(), value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.NotFound("furniture", value))
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// Delete answers 204 whether or not the piece existed.
func Delete(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func Quote(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Quote(r.Context(), id)
	})
}

func Refurbish(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		ctx := logg.WithEntity(r.Context(), "furniture", id.String())
		item, err := svc.Refurbish(ctx, id)
		if err == nil {
			logg.Info(ctx, "furniture refurbished")
		}
		return item, err
	})
}

func AssignSupplier(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req assignSupplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		var supplierID *uuid.UUID
		if req.SupplierID != nil && *req.SupplierID != "" {
			parsed, err := uuid.Parse(*req.SupplierID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier_id")
			}
			supplierID = &parsed
		}
		return svc.AssignSupplier(r.Context(), id, supplierID)
	})
}

func TopSelling(svc furnituresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.TopSelling(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// byID parses {id} and writes the result of fn as the success payload.
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
