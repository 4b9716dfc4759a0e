package orders

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/responses"
	"github.com/totofurniture/furnistore-backend/api/validators"
	"github.com/totofurniture/furnistore-backend/internal/ledger"
	ordersvc "github.com/totofurniture/furnistore-backend/internal/orders"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/pagination"
)

// List returns a cursor page of orders matching the query filters.
func List(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), ordersvc.ListInput{
			Filter:     filter,
			Pagination: pagination.Params{Limit: limit, Cursor: validators.QueryString(r, "cursor")},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, page.Orders, page.NextCursor)
	}
}

// Preset serves one of the canned order queries.
func Preset(filter func() ordersvc.Filter, svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Find(r.Context(), filter())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func Overdue(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.OverdueDeliveries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func Create(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithOrderID(logg.WithCustomerID(r.Context(), order.CustomerID.String()), order.ID.String())
		logg.Info(logg.WithField(ctx, "total_amount", order.TotalAmount), "order created")
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func Update(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req detailsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		details, err := req.toDetails()
		if err != nil {
			return nil, err
		}
		return svc.Update(r.Context(), id, details)
	})
}

func Get(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, pkgerrors.NotFound("order", id.String())
		}
		return order, nil
	})
}

func Delete(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func AddItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req itemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return svc.AddItem(r.Context(), id, req.FurnitureID)
	})
}

// RemoveItem drops the first line referencing the furniture piece.
func RemoveItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		furnitureID, err := validators.ParsePathUUID(r, "furnitureId")
		if err != nil {
			return nil, err
		}
		return svc.RemoveItem(r.Context(), id, furnitureID)
	})
}

func UpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req statusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			return nil, err
		}
		logg.Info(logg.WithFields(logg.WithOrderID(r.Context(), id.String()), map[string]any{"status": status}), "order status updated")
		return order, nil
	})
}

func ApplyPayment(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req paymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		input, err := req.toInput()
		if err != nil {
			return nil, err
		}
		order, err := svc.ApplyPayment(r.Context(), id, input)
		if err != nil {
			return nil, err
		}
		logg.Info(logg.WithFields(logg.WithOrderID(r.Context(), id.String()), map[string]any{
			"payment_status": order.PaymentStatus,
			"amount":         input.Amount,
		}), "order payment applied")
		return order, nil
	})
}

func PlanInstallments(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var req installmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return svc.PlanInstallments(r.Context(), id, req.Months)
	})
}

// Ledger returns the order's payment history. Unknown orders are a 404
// rather than an empty history.
func Ledger(svc ordersvc.Service, history ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, func(r *http.Request, id uuid.UUID) (any, error) {
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, pkgerrors.NotFound("order", id.String())
		}
		return history.History(r.Context(), id)
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
