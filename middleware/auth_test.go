package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims(role models.UserRole) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": "judge1",
		"name":    "Sheikh Ahmed",
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func protected(roles ...models.UserRole) http.Handler {
	return Authenticate(testSecret)(Authorize(roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := GetUserFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User", user.ID+"/"+user.Name+"/"+string(user.Role))
		w.WriteHeader(http.StatusNoContent)
	})))
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	expired := validClaims(models.RoleJudge)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	badRole := validClaims(models.RoleJudge)
	badRole["role"] = "player"

	noUser := validClaims(models.RoleJudge)
	delete(noUser, "user_id")

	tests := []struct {
		name   string
		header string
		roles  []models.UserRole
		want   int
	}{
		{name: "no header", header: "", roles: []models.UserRole{models.RoleJudge}, want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", roles: []models.UserRole{models.RoleJudge}, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", roles: []models.UserRole{models.RoleJudge}, want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, []byte("other"), validClaims(models.RoleJudge)), roles: []models.UserRole{models.RoleJudge}, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, expired), roles: []models.UserRole{models.RoleJudge}, want: http.StatusUnauthorized},
		{name: "unknown role", header: "Bearer " + signToken(t, testSecret, badRole), roles: []models.UserRole{models.RoleJudge}, want: http.StatusUnauthorized},
		{name: "missing user id", header: "Bearer " + signToken(t, testSecret, noUser), roles: []models.UserRole{models.RoleJudge}, want: http.StatusUnauthorized},
		{name: "judge on admin route", header: "Bearer " + signToken(t, testSecret, validClaims(models.RoleJudge)), roles: []models.UserRole{models.RoleAdmin}, want: http.StatusForbidden},
		{name: "judge on judging route", header: "Bearer " + signToken(t, testSecret, validClaims(models.RoleJudge)), roles: []models.UserRole{models.RoleAdmin, models.RoleJudge}, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			protected(tt.roles...).ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "judge1/Sheikh Ahmed/judge", rr.Header().Get("X-User"))
			}
		})
	}
}

func TestRejectsNonHMACAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(models.RoleAdmin)).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protected(models.RoleAdmin).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWithUserRoundTrip(t *testing.T) {
	u := models.User{ID: "admin", Name: "Admin", Role: models.RoleAdmin}
	got, err := GetUserFromContext(WithUser(context.Background(), u))
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = GetUserFromContext(context.Background())
	assert.Error(t, err)
}
