package customers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	customersvc "github.com/totofurniture/furnistore-backend/internal/customers"
	"github.com/totofurniture/furnistore-backend/pkg/db/dbtest"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	client, conn := dbtest.Client(t)
	logg := logger.New(logger.Options{ServiceName: "customers-controller-test"})
	svc, err := customersvc.NewService(customersvc.ServiceParams{
		Repo:   customersvc.NewRepository(conn),
		DB:     client,
		Logger: logg,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/customers", List(svc, logg))
	r.Post("/customers", Create(svc, logg))
	r.Post("/customers/inactivity-sweep", InactivitySweep(svc, logg))
	r.Get("/customers/{id}", Get(svc, logg))
	r.Put("/customers/{id}", Update(svc, logg))
	r.Delete("/customers/{id}", Delete(svc, logg))
	r.Get("/customers/{id}/loyalty", Loyalty(svc, logg))
	r.Post("/customers/{id}/vip-upgrade", UpgradeVIP(svc, logg))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, json.RawMessage) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env.Data
}

func TestCreateDefaultsAndLoyalty(t *testing.T) {
	h := newRouter(t)

	rec, data := do(t, h, http.MethodPost, "/customers", `{"first_name":"Ayesha","last_name":"Khan","primary_phone":"+923001234567","city":"Lahore"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created customersvc.CustomerDTO
	require.NoError(t, json.Unmarshal(data, &created))
	require.Equal(t, "Ayesha Khan", created.FullName)
	require.Equal(t, enums.CustomerTypeFirstTime, created.CustomerType)

	rec, data = do(t, h, http.MethodGet, "/customers/"+created.ID.String()+"/loyalty", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var loyalty customersvc.LoyaltyDTO
	require.NoError(t, json.Unmarshal(data, &loyalty))
	require.Zero(t, loyalty.OrderCount)

	rec, data = do(t, h, http.MethodPost, "/customers/"+created.ID.String()+"/vip-upgrade", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var upgrade struct {
		Upgraded bool `json:"upgraded"`
	}
	require.NoError(t, json.Unmarshal(data, &upgrade))
	require.False(t, upgrade.Upgraded)
}

func TestCreateValidation(t *testing.T) {
	h := newRouter(t)

	rec, _ := do(t, h, http.MethodPost, "/customers", `{"first_name":"A","last_name":"B","primary_phone":"555"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/customers", `{"first_name":"A","last_name":"B","customer_type":"gold"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListByCityAndDelete(t *testing.T) {
	h := newRouter(t)
	for _, body := range []string{
		`{"first_name":"Ali","last_name":"Raza","city":"Karachi"}`,
		`{"first_name":"Sara","last_name":"Malik","city":"Lahore"}`,
	} {
		rec, _ := do(t, h, http.MethodPost, "/customers", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, data := do(t, h, http.MethodGet, "/customers?city=Karachi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []customersvc.CustomerDTO
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	require.Equal(t, "Ali", list[0].FirstName)

	rec, _ = do(t, h, http.MethodDelete, "/customers/"+list[0].ID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/customers/"+list[0].ID.String(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/customers?registered_from=yesterday", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInactivitySweepReportsCount(t *testing.T) {
	h := newRouter(t)
	rec, data := do(t, h, http.MethodPost, "/customers/inactivity-sweep", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res customersvc.SweepResult
	require.NoError(t, json.Unmarshal(data, &res))
	require.Zero(t, res.Updated)
}
