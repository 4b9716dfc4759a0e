package furniture

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	furnituresvc "github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/internal/suppliers"
	"github.com/totofurniture/furnistore-backend/pkg/db/dbtest"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := furnituresvc.NewService(furnituresvc.NewRepository(conn), client, suppliers.NewRepository(conn))
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "furniture-controller-test"})

	r := chi.NewRouter()
	r.Get("/furniture", List(svc, logg))
	r.Get("/furniture/{id}", Get(svc, logg))
	r.Get("/furniture/{id}/quote", Quote(svc, logg))
	r.Post("/beds", Create(enums.FurnitureKindBed, svc, logg))
	r.Put("/beds/{id}", Update(enums.FurnitureKindBed, svc, logg))
	r.Get("/beds/premium", Preset(Static(furnituresvc.PremiumBeds), svc, logg))
	r.Post("/misc", Create(enums.FurnitureKindMisc, svc, logg))
	r.Put("/misc/{id}/modifiers/{name}", SetMiscPriceModifier(svc, logg))
	return r
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	NextCursor string          `json:"next_cursor"`
	Error      *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestCreateBedAndQuote(t *testing.T) {
	h := newRouter(t)

	rec, env := do(t, h, http.MethodPost, "/beds", `{"name":"Royal Bed","price":1000,"size":"King","has_headboard":true,"has_footboard":true,"wood_type":"sheesham"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created furnituresvc.FurnitureDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, enums.FurnitureKindBed, created.Kind)
	require.NotNil(t, created.Bed)
	require.Equal(t, "king", created.Bed.Size)

	rec, env = do(t, h, http.MethodGet, "/furniture/"+created.ID.String()+"/quote", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var quote furnituresvc.QuoteDTO
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	require.Equal(t, created.ID, quote.FurnitureID)

	rec, env = do(t, h, http.MethodGet, "/beds/premium", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var premium []furnituresvc.FurnitureDTO
	require.NoError(t, json.Unmarshal(env.Data, &premium))
	require.Len(t, premium, 1)
}

func TestCreateRejectsInvalidBody(t *testing.T) {
	h := newRouter(t)

	rec, env := do(t, h, http.MethodPost, "/beds", `{"price":10,"size":"king"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = do(t, h, http.MethodPost, "/beds", `{"name":"Bed","price":10,"size":"king","wood_type":"plastic"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/beds", `{"name":"Bed","price":-1,"size":"king"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownAndMalformedIDs(t *testing.T) {
	h := newRouter(t)

	rec, env := do(t, h, http.MethodGet, "/furniture/5f1f4f0e-4a8b-4c4e-9d7c-1f1f1f1f1f1f", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, _ = do(t, h, http.MethodGet, "/furniture/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFiltersByKindAndPages(t *testing.T) {
	h := newRouter(t)
	for _, name := range []string{"A", "B", "C"} {
		rec, _ := do(t, h, http.MethodPost, "/beds", `{"name":"Bed `+name+`","price":500,"size":"single"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec, _ := do(t, h, http.MethodPost, "/misc", `{"name":"Lamp","price":80,"category":"lighting"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodGet, "/furniture?kind=bed&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page []furnituresvc.FurnitureDTO
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page, 2)
	require.NotEmpty(t, env.NextCursor)

	rec, env = do(t, h, http.MethodGet, "/furniture?kind=bed&limit=2&cursor="+env.NextCursor, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page, 1)
	require.Empty(t, env.NextCursor)

	rec, _ = do(t, h, http.MethodGet, "/furniture?kind=wardrobe", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateKindMismatch(t *testing.T) {
	h := newRouter(t)
	rec, env := do(t, h, http.MethodPost, "/misc", `{"name":"Lamp","price":80}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created furnituresvc.FurnitureDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, _ = do(t, h, http.MethodPut, "/beds/"+created.ID.String(), `{"name":"Bed","price":10,"size":"king"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = do(t, h, http.MethodPut, "/misc/"+created.ID.String()+"/modifiers/gift-wrap", `{"value":15}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated furnituresvc.FurnitureDTO
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Len(t, updated.Misc.PriceModifiers, 1)
}
