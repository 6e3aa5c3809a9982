package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/server"
	"github.com/Pavanreddy56/BKI-company/internal/testutil"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

// errorBody is the shape every non-2xx response uses.
type errorBody struct {
	Message string                       `json:"message"`
	Errors  []validation.ValidationError `json:"errors"`
}

// errorFields collects the field names from an itemized validation body.
func errorFields(body errorBody) map[string]bool {
	fields := make(map[string]bool, len(body.Errors))
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	return fields
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == server.SessionCookie {
			return c
		}
	}
	return nil
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	srv, _ := testutil.NewServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/auth/register", map[string]string{
		"email":       "Trader@Example.COM",
		"password":    "secret-pass-1",
		"firstName":   "Asha",
		"companyName": "Asha Trading",
	}, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.User
	testutil.Decode(t, w, &created)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "client", created.Role)
	// Email is normalized to lowercase.
	require.Equal(t, "trader@example.com", *created.Email)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie, "register should set a session cookie")
	require.True(t, cookie.HttpOnly)

	// The fresh cookie authenticates /api/auth/user.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/auth/user", nil, cookie.Value))
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	testutil.Decode(t, w, &me)
	require.Equal(t, created.ID, me.ID)

	// Login with the original mixed-case email works too.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/auth/login", map[string]string{
		"email":    "TRADER@example.com",
		"password": "secret-pass-1",
	}, ""))
	require.Equal(t, http.StatusOK, w.Code)

	// Logout invalidates the session.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/auth/logout", nil, cookie.Value))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/auth/user", nil, cookie.Value))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := testutil.NewServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	}, ""))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	testutil.Decode(t, w, &body)
	require.Equal(t, "validation failed", body.Message)
	fields := errorFields(body)
	require.True(t, fields["email"])
	require.True(t, fields["password"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, st := testutil.NewServer(t)
	testutil.CreateUser(t, st, "taken@example.com", "secret-pass-1", "client")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/auth/register", map[string]string{
		"email":    "taken@example.com",
		"password": "secret-pass-1",
	}, ""))
	require.Equal(t, http.StatusConflict, w.Code)

	var body errorBody
	testutil.Decode(t, w, &body)
	require.Equal(t, "email already registered", body.Message)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, st := testutil.NewServer(t)
	testutil.CreateUser(t, st, "user@example.com", "secret-pass-1", "client")

	for _, creds := range []map[string]string{
		{"email": "user@example.com", "password": "wrong-pass"},
		{"email": "ghost@example.com", "password": "secret-pass-1"},
	} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/auth/login", creds, ""))
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body errorBody
		testutil.Decode(t, w, &body)
		// Identical message for both failure modes.
		require.Equal(t, "invalid email or password", body.Message)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	srv, st := testutil.NewServer(t)
	client := testutil.CreateUser(t, st, "client@example.com", "secret-pass-1", "client")
	clientToken := testutil.Login(t, st, client)

	// Anonymous callers get 401.
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/quotes", nil, ""))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Authenticated clients get 403.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/quotes", nil, clientToken))
	require.Equal(t, http.StatusForbidden, w.Code)

	// Admins get through.
	adminToken := testutil.LoginAdmin(t, st)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/quotes", nil, adminToken))
	require.Equal(t, http.StatusOK, w.Code)
}
