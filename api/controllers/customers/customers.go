package customers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/responses"
	"github.com/totofurniture/furnistore-backend/api/validators"
	customersvc "github.com/totofurniture/furnistore-backend/internal/customers"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func List(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
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

func VIPs(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Find(r.Context(), customersvc.VIPs())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func Create(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req customerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(logg.WithCustomerID(r.Context(), customer.ID.String()), "customer created")
		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

func Update(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req customerRequest
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

func Get(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, pkgerrors.NotFound("customer", id.String())
		}
		return customer, nil
	})
}

// Delete removes the customer together with their orders.
func Delete(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func Loyalty(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Loyalty(r.Context(), id)
	})
}

func UpgradeVIP(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		upgraded, err := svc.UpgradeToVIPIfEligible(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"customer_id": id, "upgraded": upgraded}, nil
	})
}

func InactivitySweep(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sweep(logg, "inactivity", svc.MarkInactiveCustomers)
}

func VIPSweep(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sweep(logg, "vip_upgrade", svc.UpgradeEligibleToVIP)
}

func sweep(logg *logger.Logger, name string, run func(ctx context.Context) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithField(r.Context(), "sweep", name)
		updated, err := run(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		logg.Info(logg.WithField(ctx, "updated", updated), "customer sweep complete")
		responses.WriteSuccess(w, customersvc.SweepResult{Updated: updated})
	}
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
