package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CureSaba/discord-join2create/internal/app"
	"github.com/CureSaba/discord-join2create/internal/config"
)

func TestHealthz(t *testing.T) {
	r := SetupRouter(&config.Config{Mode: "release"}, app.NewRegistry())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoomsListing(t *testing.T) {
	registry := app.NewRegistry()
	registry.Put("c1", "u1")
	r := SetupRouter(&config.Config{Mode: "release"}, registry)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var rooms []app.OwnedRoom
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, app.OwnedRoom{Room: "c1", Owner: "u1"}, rooms[0])
}

func TestMetricsExposed(t *testing.T) {
	r := SetupRouter(&config.Config{Mode: "release"}, app.NewRegistry())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
