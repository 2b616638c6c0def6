package match

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduspark/arena-platform/internal/arena"
)

func newTestRouter(t *testing.T, f *serviceFixture) http.Handler {
	t.Helper()

	h := NewHTTPHandlers(f.service, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/matches", h.StartMatch)
	mux.HandleFunc("GET /v1/matches/{id}", h.GetMatch)
	mux.HandleFunc("POST /v1/matches/{id}/answers", h.SubmitAnswer)
	mux.HandleFunc("POST /v1/matches/{id}/cancel", h.CancelMatch)
	mux.HandleFunc("GET /v1/matches/{id}/events", h.GetEvents)
	mux.HandleFunc("GET /v1/matches/{id}/result", h.GetResult)
	mux.HandleFunc("GET /v1/themes", h.ListThemes)
	return mux
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHTTPStartMatch(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 1000})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodPost, "/v1/matches", `{"theme_id":"target","question_count":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "target", result.ThemeID)
	assert.Equal(t, 3, result.QuestionCount)
	assert.Equal(t, arena.PhaseQuestion, result.State.Phase)
}

func TestHTTPStartMatchErrors(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 1000})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodPost, "/v1/matches", `{"question_count":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/matches", `{"theme_id":"missing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_theme")

	rec = doJSON(t, router, http.MethodPost, "/v1/matches", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPSubmitAnswer(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 1000})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodPost, "/v1/matches", `{"theme_id":"target"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var started StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = doJSON(t, router, http.MethodPost, "/v1/matches/"+started.MatchID.String()+"/answers",
		`{"team":"left","answer":"56","elapsed_ms":1200}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome SubmitOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Accepted)
	assert.True(t, outcome.Result.Correct)

	// A rejected submission still answers 200 with a reason code.
	rec = doJSON(t, router, http.MethodPost, "/v1/matches/"+started.MatchID.String()+"/answers",
		`{"team":"middle","answer":"56"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.False(t, outcome.Accepted)
	assert.Equal(t, arena.ReasonUnknownTeam, outcome.Reason)
}

func TestHTTPSubmitAnswerBadIDs(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 1000})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodPost, "/v1/matches/not-a-uuid/answers", `{"team":"left","answer":"56"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/matches/"+uuid.NewString()+"/answers", `{"team":"left","answer":"56"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPGetMatchAndEvents(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 1000})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodPost, "/v1/matches", `{"theme_id":"target"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var started StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = doJSON(t, router, http.MethodGet, "/v1/matches/"+started.MatchID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var state State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.Live)
	assert.Equal(t, arena.PhaseQuestion, state.State.Phase)

	rec = doJSON(t, router, http.MethodGet, "/v1/matches/"+started.MatchID.String()+"/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), arena.EventQuestionShown)

	rec = doJSON(t, router, http.MethodGet, "/v1/matches/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPCancelMatch(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 1000})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodPost, "/v1/matches", `{"theme_id":"target"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var started StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = doJSON(t, router, http.MethodPost, "/v1/matches/"+started.MatchID.String()+"/cancel",
		`{"forfeited_by":"right"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/matches/"+uuid.NewString()+"/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPResultNotFound(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 1000})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodGet, "/v1/matches/"+uuid.NewString()+"/result", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "result_not_found")
}

func TestHTTPListThemes(t *testing.T) {
	f := newServiceFixture(t, targetTheme{target: 100})
	router := newTestRouter(t, f)

	rec := doJSON(t, router, http.MethodGet, "/v1/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"target"`)
	assert.Contains(t, rec.Body.String(), "first_to_target")
}
