package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/dishrank/internal/client/storage"
	"github.com/atinyakov/dishrank/internal/models"
	"github.com/atinyakov/dishrank/internal/repository"
	"github.com/atinyakov/dishrank/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	handler http.Handler
	kv      *storage.MemoryStore
}

func newTestApp(t *testing.T, assetsDir string) *testApp {
	t.Helper()
	log := zap.NewNop()
	kv := storage.NewMemoryStore()
	roster := repository.NewRosterRepository([]models.User{
		{Username: "alice", Password: "secret"},
		{Username: "bob", Password: "hunter2"},
	})

	auth := service.NewAuthService(roster, kv, log)
	ledger := service.NewVoteLedger(auth, kv, log)
	catalog := service.NewCatalog(kv, log)
	catalog.SetDishes([]models.Dish{
		{ID: 1, DishName: "Biryani", Image: "/assets/dishes/biryani.jpg"},
		{ID: 2, DishName: "Dosa"},
		{ID: 3, DishName: "Chole"},
	})
	rankings := service.NewRankingService(catalog, ledger, auth)

	router := NewRouter(
		&AuthHandler{AuthService: auth, Log: log},
		&VoteHandler{VoteService: ledger, Catalog: catalog, Log: log},
		&DishHandler{Catalog: catalog, Rankings: rankings, Log: log},
		auth,
		assetsDir,
		log,
	)
	return &testApp{handler: router, kv: kv}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) rankings(t *testing.T) []models.RankedDish {
	t.Helper()
	rec := a.do(t, "GET", "/api/rankings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []models.RankedDish
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestRouter_RequiresIdentity(t *testing.T) {
	app := newTestApp(t, "")

	for _, tc := range []struct{ method, path, body string }{
		{"GET", "/api/dishes", ""},
		{"GET", "/api/rankings", ""},
		{"PUT", "/api/votes/1", `{"rank":1}`},
		{"DELETE", "/api/votes/1", ""},
		{"PUT", "/api/dishes/1/image", `{"url":"x.jpg"}`},
	} {
		rec := app.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_VotingFlow(t *testing.T) {
	app := newTestApp(t, "")

	assert.Equal(t, http.StatusUnauthorized, app.do(t, "POST", "/api/login", `{"username":"alice","password":"bad"}`).Code)
	require.Equal(t, http.StatusOK, app.do(t, "POST", "/api/login", `{"username":"alice","password":"secret"}`).Code)

	require.Equal(t, http.StatusNoContent, app.do(t, "PUT", "/api/votes/2", `{"rank":1}`).Code)
	require.Equal(t, http.StatusNoContent, app.do(t, "PUT", "/api/votes/3", `{"rank":2}`).Code)
	require.Equal(t, http.StatusNoContent, app.do(t, "POST", "/api/logout", "").Code)

	require.Equal(t, http.StatusOK, app.do(t, "POST", "/api/login", `{"username":"bob","password":"hunter2"}`).Code)
	require.Equal(t, http.StatusNoContent, app.do(t, "PUT", "/api/votes/2", `{"rank":2}`).Code)

	got := app.rankings(t)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 50, got[0].Points)
	require.NotNil(t, got[0].UserRank)
	assert.Equal(t, models.RankSecond, *got[0].UserRank)
	assert.Equal(t, 3, got[1].ID)
	assert.Nil(t, got[1].UserRank)
	assert.Equal(t, 1, got[2].ID)
	assert.Zero(t, got[2].Points)

	require.Equal(t, http.StatusNoContent, app.do(t, "DELETE", "/api/votes/2", "").Code)
	got = app.rankings(t)
	assert.Equal(t, 30, got[0].Points)

	stored, ok, err := app.kv.Get(context.Background(), service.KeyVotes)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"userId":"alice","dishId":2,"rank":1},{"userId":"alice","dishId":3,"rank":2}]`, stored)
}

func TestRouter_BadVotes(t *testing.T) {
	app := newTestApp(t, "")
	require.Equal(t, http.StatusOK, app.do(t, "POST", "/api/login", `{"username":"alice","password":"secret"}`).Code)

	assert.Equal(t, http.StatusBadRequest, app.do(t, "PUT", "/api/votes/abc", `{"rank":1}`).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, "PUT", "/api/votes/99", `{"rank":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, "PUT", "/api/votes/1", `{"rank":4}`).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, "PUT", "/api/votes/1", `{`).Code)

	req := httptest.NewRequest("PUT", "/api/votes/1", bytes.NewBufferString(`{"rank":1}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	assert.Empty(t, app.rankings(t)[0].UserRank)
}

func TestRouter_CustomImages(t *testing.T) {
	app := newTestApp(t, "")
	require.Equal(t, http.StatusOK, app.do(t, "POST", "/api/login", `{"username":"bob","password":"hunter2"}`).Code)

	assert.Equal(t, http.StatusBadRequest, app.do(t, "PUT", "/api/dishes/2/image", `{"url":""}`).Code)
	require.Equal(t, http.StatusNoContent, app.do(t, "PUT", "/api/dishes/2/image", `{"url":"https://img.example/dosa.jpg"}`).Code)

	rec := app.do(t, "GET", "/api/dishes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dishes []models.Dish
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dishes))
	assert.Equal(t, "https://img.example/dosa.jpg", dishes[1].Image)

	require.Equal(t, http.StatusNoContent, app.do(t, "DELETE", "/api/dishes/2/image", "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, "DELETE", "/api/dishes/42/image", "").Code)
}

func TestRouter_Assets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "biryani.jpg"), []byte("jpeg"), 0o644))
	app := newTestApp(t, dir)

	rec := app.do(t, "GET", "/assets/dishes/biryani.jpg", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg", rec.Body.String())
}
