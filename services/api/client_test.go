package apisvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/", WithTimeout(2*time.Second), WithUserAgent("test-agent"))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("localhost:5000")
	assert.Error(t, err)
	_, err = NewClient("http://localhost:5000/api")
	assert.NoError(t, err)
}

func TestClient_request(t *testing.T) {
	var gotReq *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		writeJSON(w, http.StatusOK, []school.Attendance{{ID: "a1", Status: school.AttendanceAbsent}})
	})

	ctx := WithToken(context.Background(), "tok3n")
	records, err := c.ListAttendances(ctx, school.AttendanceFilter{Date: "2024-03-01", Status: school.AttendanceAbsent})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].ID)

	assert.Equal(t, http.MethodGet, gotReq.Method)
	assert.Equal(t, "/api/attendances", gotReq.URL.Path)
	assert.Equal(t, "date=2024-03-01&status=absent", gotReq.URL.RawQuery)
	assert.Equal(t, "Bearer tok3n", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "test-agent", gotReq.Header.Get("User-Agent"))
}

func TestClient_noToken(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, AuthResponse{Token: "t"})
	})
	_, err := c.Login(context.Background(), Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestClient_pathEscaping(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.RemoveStudentFromClass(context.Background(), "6A/B", "s 1"))
	assert.Equal(t, "/api/classes/6A%2FB/students/s%201", gotPath)
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		wantMsg string
		want401 bool
	}{
		{name: "error field", code: http.StatusBadRequest, body: `{"error":"email already used"}`, wantMsg: "email already used"},
		{name: "message field", code: http.StatusNotFound, body: `{"message":"class not found"}`, wantMsg: "class not found"},
		{name: "plain text", code: http.StatusBadGateway, body: "upstream down", wantMsg: "upstream down"},
		{name: "empty body", code: http.StatusInternalServerError, wantMsg: "Internal Server Error"},
		{name: "unauthorized", code: http.StatusUnauthorized, body: `{"error":"token expired"}`, wantMsg: "token expired", want401: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.ListClasses(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.code, StatusCode(errors.Wrap(err, "loading classes")))
			assert.Equal(t, tt.want401, IsUnauthorized(errors.Wrap(err, "loading classes")))
		})
	}
}

func TestClient_transportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.SystemStatus(context.Background())
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_Report(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		writeJSON(w, http.StatusOK, school.Report{Title: "Fees", Columns: []string{"a"}, Rows: [][]string{{"1"}}})
	})

	r, err := c.Report(context.Background(), school.ReportFinancial, school.ReportFilter{From: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, school.ReportFinancial, r.Kind)
	assert.Equal(t, "/api/reports/financial", gotPath)
	assert.Equal(t, "from=2024-01-01", gotQuery)

	_, err = c.Report(context.Background(), "weather", school.ReportFilter{})
	assert.Error(t, err)
}

func TestParseTokenClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(exp)},
		Name:             "Amani Kabila",
		Email:            "amani@test.cd",
		Role:             school.RoleTeacher,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-only-secret"))
	require.NoError(t, err)

	tc, err := ParseTokenClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", tc.UserID)
	assert.Equal(t, school.RoleTeacher, tc.Role)
	assert.Equal(t, "amani@test.cd", tc.Email)
	assert.True(t, exp.Equal(tc.ExpiresAt))

	_, err = ParseTokenClaims("not-a-jwt")
	assert.Error(t, err)
}
