package suppliers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/totofurniture/furnistore-backend/internal/furniture"
	suppliersvc "github.com/totofurniture/furnistore-backend/internal/suppliers"
	"github.com/totofurniture/furnistore-backend/pkg/db/dbtest"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := suppliersvc.NewService(suppliersvc.NewRepository(conn), furniture.NewRepository(conn), client)
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "suppliers-controller-test"})

	r := chi.NewRouter()
	r.Get("/suppliers", List(svc, logg))
	r.Post("/suppliers", Create(svc, logg))
	r.Get("/suppliers/manufacturers", Preset(suppliersvc.Manufacturers, svc, logg))
	r.Post("/suppliers/hold", Hold(svc, logg))
	r.Get("/suppliers/{id}", Get(svc, logg))
	r.Delete("/suppliers/{id}", Delete(svc, logg))
	r.Get("/suppliers/{id}/score", Score(svc, logg))
	r.Get("/suppliers/{id}/service-check", ServiceCheck(svc, logg))
	r.Post("/suppliers/{id}/service-cities/{city}", AddServiceCity(svc, logg))
	r.Post("/suppliers/{id}/wood-types/{wood}", AddWoodType(svc, logg))
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

func createSupplier(t *testing.T, h http.Handler, body string) suppliersvc.SupplierDTO {
	t.Helper()
	rec, data := do(t, h, http.MethodPost, "/suppliers", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dto suppliersvc.SupplierDTO
	require.NoError(t, json.Unmarshal(data, &dto))
	return dto
}

func TestCreateAndScore(t *testing.T) {
	h := newRouter(t)
	created := createSupplier(t, h, `{"company_name":"Chiniot Woodworks","primary_phone":"03001234567","supplier_type":"manufacturer","standard_lead_time_days":10,"provides_custom_work":true}`)

	rec, data := do(t, h, http.MethodGet, "/suppliers/"+created.ID.String()+"/score", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var score suppliersvc.ScoreDTO
	require.NoError(t, json.Unmarshal(data, &score))
	require.Equal(t, created.ID, score.SupplierID)

	rec, data = do(t, h, http.MethodGet, "/suppliers/manufacturers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []suppliersvc.SupplierDTO
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
}

func TestCreateRejectsBadPhone(t *testing.T) {
	h := newRouter(t)
	rec, _ := do(t, h, http.MethodPost, "/suppliers", `{"company_name":"X","primary_phone":"12345"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/suppliers", `{"company_name":"X","bulk_order_discount_rate":1.5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceCitiesAndCheck(t *testing.T) {
	h := newRouter(t)
	created := createSupplier(t, h, `{"company_name":"Karachi Sofas","city":"Karachi"}`)
	base := "/suppliers/" + created.ID.String()

	rec, _ := do(t, h, http.MethodPost, base+"/service-cities/Lahore", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, data := do(t, h, http.MethodGet, base+"/service-check?city=lahore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var check struct {
		CanService bool `json:"can_service"`
	}
	require.NoError(t, json.Unmarshal(data, &check))
	require.True(t, check.CanService)

	rec, _ = do(t, h, http.MethodPost, base+"/wood-types/plastic", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoldAndDelete(t *testing.T) {
	h := newRouter(t)
	a := createSupplier(t, h, `{"company_name":"A"}`)
	b := createSupplier(t, h, `{"company_name":"B"}`)

	rec, data := do(t, h, http.MethodPost, "/suppliers/hold", `{"ids":["`+a.ID.String()+`","`+b.ID.String()+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res map[string]int
	require.NoError(t, json.Unmarshal(data, &res))
	require.Equal(t, 2, res["updated"])

	rec, _ = do(t, h, http.MethodDelete, "/suppliers/"+a.ID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/suppliers/"+a.ID.String(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
