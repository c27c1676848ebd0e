package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptrix4/skillatics-io/internal/adaptive"
	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/gamification"
	"github.com/synaptrix4/skillatics-io/internal/models"
	"github.com/synaptrix4/skillatics-io/internal/repository"
	"github.com/synaptrix4/skillatics-io/internal/selection"
	"github.com/synaptrix4/skillatics-io/internal/service"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, seed ...models.Question) *gin.Engine {
	t.Helper()
	questions := repository.NewMemoryQuestionRepository(seed...)
	sessions := repository.NewMemorySessionStore()
	results := repository.NewMemoryResultStore()
	users := repository.NewMemoryUserStore()
	config := adaptive.DefaultConfig()

	sessionService := service.NewSessionService(
		sessions,
		questions,
		results,
		selection.NewPoolManager(questions, results, nil, config, time.Second),
		adaptive.NewManager(config),
		gamification.NewEngine(results, users),
		nil,
	)

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Sessions:  NewSessionHandler(sessionService),
		Results:   NewResultHandler(service.NewResultService(results)),
		Questions: NewQuestionHandler(service.NewQuestionService(questions)),
	}, AuthRequired(testSecret))
	return r
}

func seedQuestions() []models.Question {
	var qs []models.Question
	for d := 1; d <= 5; d++ {
		for i := 0; i < 4; i++ {
			qs = append(qs, models.Question{
				ID:         fmt.Sprintf("q%d-%d", d, i),
				Topic:      "Math",
				Difficulty: d,
				Prompt:     fmt.Sprintf("question %d-%d", d, i),
				Options:    []string{"yes", "no"},
				Answer:     "yes",
			})
		}
	}
	return qs
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func student(id string) map[string]string {
	return map[string]string{"X-User-ID": id}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTestLifecycle(t *testing.T) {
	r := newTestRouter(t, seedQuestions()...)

	w := do(t, r, http.MethodPost, "/protected/assessment/test/start", gin.H{"topic": "Math"}, student("u1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	start := decode(t, w)
	sessionID := start["sessionId"].(string)
	question := start["question"].(map[string]interface{})
	assert.NotContains(t, question, "answer")
	assert.Equal(t, float64(1), question["difficulty"])

	w = do(t, r, http.MethodGet, "/protected/assessment/test/"+sessionID, nil, student("u1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, question["id"], decode(t, w)["question"].(map[string]interface{})["id"])

	w = do(t, r, http.MethodGet, "/protected/assessment/test/"+sessionID, nil, student("u2"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/protected/assessment/test/submit", gin.H{
		"sessionId":      sessionID,
		"questionId":     question["id"],
		"selectedOption": 0,
	}, student("u1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	step := decode(t, w)
	assert.Equal(t, "continue", step["status"])
	assert.Equal(t, float64(1), step["progress"])
	assert.Equal(t, float64(10), step["total"])
	next := step["question"].(map[string]interface{})
	assert.Equal(t, float64(2), next["difficulty"])

	w = do(t, r, http.MethodPost, "/protected/assessment/test/submit", gin.H{
		"sessionId":      sessionID,
		"questionId":     next["id"],
		"selectedOption": "no",
	}, student("u1"))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/protected/assessment/test/"+sessionID+"/finish", nil, student("u1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode(t, w)
	assert.Equal(t, "complete", done["status"])
	assert.Equal(t, float64(50), done["score"])
	assert.Equal(t, float64(2), done["totalQuestions"])
	assert.Equal(t, float64(1), done["correctQuestions"])
	assert.Equal(t, "finished_early", done["reason"])
	assert.Len(t, done["review"], 2)
	assert.NotNil(t, done["reward"])

	w = do(t, r, http.MethodGet, "/protected/assessment/test/"+sessionID, nil, student("u1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/protected/assessment/results", nil, student("u1"))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Equal(t, float64(1), list["count"])

	resultID := done["resultId"].(string)
	w = do(t, r, http.MethodGet, "/protected/assessment/results/"+resultID, nil, student("u1"))
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/protected/assessment/results/"+resultID, nil, student("u2"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitErrors(t *testing.T) {
	r := newTestRouter(t, seedQuestions()...)
	w := do(t, r, http.MethodPost, "/protected/assessment/test/start", nil, student("u1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sessionID := decode(t, w)["sessionId"].(string)

	w = do(t, r, http.MethodPost, "/protected/assessment/test/submit", gin.H{"sessionId": sessionID}, student("u1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/protected/assessment/test/submit", gin.H{
		"sessionId": sessionID, "questionId": "wrong", "selectedOption": "yes",
	}, student("u1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/protected/assessment/test/submit", gin.H{
		"sessionId": sessionID, "questionId": "q1-0", "selectedOption": true,
	}, student("u1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/protected/assessment/test/submit", gin.H{
		"sessionId": "missing", "questionId": "q1-0", "selectedOption": "yes",
	}, student("u1"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartWithoutQuestions(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/protected/assessment/test/start", gin.H{"topic": "Math"}, student("u1"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "failed to build test", decode(t, w)["error"])
}

func signedToken(t *testing.T, userID, role, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuth(t *testing.T) {
	r := newTestRouter(t, seedQuestions()...)

	w := do(t, r, http.MethodGet, "/protected/assessment/results", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	bearer := func(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }

	w = do(t, r, http.MethodGet, "/protected/assessment/results", nil, bearer(signedToken(t, "u1", RoleStudent, testSecret)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/protected/assessment/results", nil, bearer(signedToken(t, "u1", RoleStudent, "other")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/protected/assessment/test/start", nil, bearer(signedToken(t, "a1", RoleAdmin, testSecret)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQuestionRoutes(t *testing.T) {
	r := newTestRouter(t)
	body := gin.H{
		"topic":      "Math",
		"difficulty": 2,
		"prompt":     "1+1?",
		"options":    []string{"1", "2"},
		"answer":     "2",
	}

	w := do(t, r, http.MethodPost, "/protected/assessment/questions", body, student("u1"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := map[string]string{"X-User-ID": "a1", "X-User-Role": RoleAdmin}
	w = do(t, r, http.MethodPost, "/protected/assessment/questions", body, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "2", created["answer"])

	w = do(t, r, http.MethodGet, "/public/assessment/questions/"+created["id"].(string), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w), "answer")

	body["answer"] = "3"
	w = do(t, r, http.MethodPost, "/protected/assessment/questions", body, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/public/assessment/questions/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		withDetails bool
	}{
		{"not found", apperr.NotFound("session s1"), http.StatusNotFound, true},
		{"validation", apperr.Validation("question mismatch"), http.StatusBadRequest, true},
		{"conflict", apperr.Conflict("session s1 changed"), http.StatusConflict, true},
		{"unclassified", errors.New("connection reset by mongo host 10.0.0.3"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/err", func(c *gin.Context) { respondError(c, tt.err) })
			w := do(t, r, http.MethodGet, "/err", nil, nil)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			details, ok := body["details"]
			assert.Equal(t, tt.withDetails, ok)
			if tt.withDetails {
				assert.Equal(t, tt.err.Error(), details)
			} else {
				assert.Equal(t, "internal server error", body["error"])
			}
		})
	}
}
