package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/partydex/partydex/internal/modules/auth"
	"github.com/partydex/partydex/internal/modules/team"
	"github.com/partydex/partydex/internal/modules/typechart"
	testutil "github.com/partydex/partydex/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerAuth authenticates requests by the X-Test-User header
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Test-User")
		if id == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), &auth.User{ID: id})))
	})
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	db, cleanup := testutil.NewTestDB(t, "team_handlers")
	t.Cleanup(cleanup)
	for _, id := range []string{"ash", "misty"} {
		_, err := db.Conn().Exec(
			"INSERT INTO users (id, email, password_hash, display_name, created_at, updated_at) VALUES (?, ?, 'x', '', 0, 0)",
			id, id+"@example.com",
		)
		require.NoError(t, err)
	}

	roster := testutil.NewRosterCache()
	matrix, err := typechart.NewMatrixFromRelations(testutil.NewTypeRelationFixtures())
	require.NoError(t, err)
	chart := typechart.NewChart(nil, nil, zerolog.Nop())
	chart.Replace(matrix)

	svc := team.NewService(
		team.NewRepository(db.Conn(), zerolog.Nop()),
		roster,
		typechart.NewAnalyzer(roster, chart),
		nil,
		zerolog.Nop(),
	)
	handler := NewHandler(svc, headerAuth, zerolog.Nop())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func do(router http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeTeam(t *testing.T, w *httptest.ResponseRecorder) team.TeamView {
	t.Helper()
	var view team.TeamView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["error"]
}

func TestTeamLifecycle(t *testing.T) {
	router := newRouter(t)

	created := do(router, http.MethodPost, "/api/teams", "ash",
		`{"name":"Rain","isPublic":false,"pokemon":[{"pokemonId":7,"position":0},{"pokemonId":130,"position":1}]}`)
	require.Equal(t, http.StatusCreated, created.Code)
	view := decodeTeam(t, created)
	assert.Equal(t, "Rain", view.Name)
	require.Len(t, view.Pokemon, 2)
	assert.Equal(t, "gyarados", view.Pokemon[1].Pokemon.NameEn)

	list := do(router, http.MethodGet, "/api/teams", "ash", "")
	require.Equal(t, http.StatusOK, list.Code)
	var listResp struct {
		Teams []team.TeamView `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listResp))
	require.Len(t, listResp.Teams, 1)

	get := do(router, http.MethodGet, "/api/teams/"+view.ID, "ash", "")
	assert.Equal(t, http.StatusOK, get.Code)

	forbidden := do(router, http.MethodGet, "/api/teams/"+view.ID, "misty", "")
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
	assert.Equal(t, "Access denied", errorMessage(t, forbidden))

	analysis := do(router, http.MethodGet, "/api/teams/"+view.ID+"/analysis", "ash", "")
	require.Equal(t, http.StatusOK, analysis.Code)
	var analysisResp team.Analysis
	require.NoError(t, json.Unmarshal(analysis.Body.Bytes(), &analysisResp))
	assert.Equal(t, []int{7, 130}, analysisResp.PokemonIDs)
	assert.Equal(t, 4.0, analysisResp.Coverage.Defensive["electric"])

	updated := do(router, http.MethodPut, "/api/teams/"+view.ID, "ash", `{"isPublic":true}`)
	require.Equal(t, http.StatusOK, updated.Code)
	updatedView := decodeTeam(t, updated)
	require.NotNil(t, updatedView.ShareID)
	assert.Len(t, updatedView.Pokemon, 2)

	shared := do(router, http.MethodGet, "/api/teams/share/"+*updatedView.ShareID, "", "")
	assert.Equal(t, http.StatusOK, shared.Code)

	deleted := do(router, http.MethodDelete, "/api/teams/"+view.ID, "ash", "")
	assert.Equal(t, http.StatusNoContent, deleted.Code)

	gone := do(router, http.MethodGet, "/api/teams/"+view.ID, "ash", "")
	assert.Equal(t, http.StatusNotFound, gone.Code)
	assert.Equal(t, "Team not found", errorMessage(t, gone))
}

func TestCreate_BadRequests(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed", `{"name":`, "Invalid request body"},
		{"wrong type", `{"name":"x","isPublic":"yes"}`, "Invalid request body"},
		{"duplicate positions", `{"name":"x","pokemon":[{"pokemonId":1,"position":0},{"pokemonId":4,"position":0}]}`, "Duplicate positions are not allowed"},
		{"position out of range", `{"name":"x","pokemon":[{"pokemonId":1,"position":6}]}`, "Position must be between 0 and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/teams", "ash", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w))
		})
	}
}

func TestCreate_LimitReached(t *testing.T) {
	router := newRouter(t)

	for i := 0; i < team.MaxTeamsPerUser; i++ {
		require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/api/teams", "ash", `{"name":"t"}`).Code)
	}

	w := do(router, http.MethodPost, "/api/teams", "ash", `{"name":"t"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Maximum 10 teams per user allowed", errorMessage(t, w))
}

func TestShare_PrivateAndUnknown(t *testing.T) {
	router := newRouter(t)

	created := do(router, http.MethodPost, "/api/teams", "ash", `{"name":"Shared","isPublic":true}`)
	require.Equal(t, http.StatusCreated, created.Code)
	view := decodeTeam(t, created)
	require.NotNil(t, view.ShareID)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/teams/share/nope", "", "").Code)

	// Other users can read a public team
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/teams/"+view.ID, "misty", "").Code)

	require.Equal(t, http.StatusOK, do(router, http.MethodPut, "/api/teams/"+view.ID, "ash", `{"isPublic":false}`).Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/teams/share/"+*view.ShareID, "", "").Code)
}

func TestRoutesRequireAuth(t *testing.T) {
	router := newRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/api/teams", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/api/teams", "", `{"name":"x"}`).Code)
}

func TestUpdate_NotOwner(t *testing.T) {
	router := newRouter(t)

	created := do(router, http.MethodPost, "/api/teams", "ash", `{"name":"Mine"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	view := decodeTeam(t, created)

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodPut, "/api/teams/"+view.ID, "misty", `{"name":"Theirs"}`).Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodDelete, "/api/teams/"+view.ID, "misty", "").Code)
}
