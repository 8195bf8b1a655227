package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/utils"
)

var testSecret = []byte("0123456789abcdef")

func subjectEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFrom(r.Context()); ok {
			_, _ = w.Write([]byte(claims.Subject))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	})
}

func TestAuthenticateAttachesClaims(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "u1", "a@x.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Authenticate(testSecret)(subjectEcho()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestAuthenticateWithoutHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	Authenticate(testSecret)(subjectEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	Authenticate(testSecret)(subjectEcho()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestAuthenticateDisabledWithoutSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	Authenticate(nil)(subjectEcho()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequestLoggerRecordsAuthenticatedUser(t *testing.T) {
	var buf bytes.Buffer
	out := logging.Logger.Out
	logging.Logger.SetOutput(&buf)
	t.Cleanup(func() { logging.Logger.SetOutput(out) })

	token, err := utils.GenerateToken(testSecret, "u1", "a@x.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	RequestLogger(Authenticate(testSecret)(subjectEcho())).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "user=u1")
}

func TestRequestLoggerRecordsRejectedToken(t *testing.T) {
	var buf bytes.Buffer
	out := logging.Logger.Out
	logging.Logger.SetOutput(&buf)
	t.Cleanup(func() { logging.Logger.SetOutput(out) })

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	RequestLogger(Authenticate(testSecret)(subjectEcho())).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "status=401")
	assert.NotContains(t, buf.String(), "user=")
}
