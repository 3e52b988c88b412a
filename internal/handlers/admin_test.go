package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/folioweb/siteserver/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, repo *fakeUserRepo, username, password, role string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), types.User{
		Username:     username,
		Email:        username + "@example.com",
		Phone:        "0123456789",
		Role:         role,
		PasswordHash: string(hashed),
	}))
}

func loginToken(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()
	rec := postForm(t, router, "/login", loginForm(username, password))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func getWithToken(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRequireToken(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})

	rec := getWithToken(t, router, "/admin/search-users-autocomplete?q=a", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "Permission denied.", resp.Message)
}

func TestAdminRoutesCheckStoredRole(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})
	seedUser(t, repo, "eve", "pw", "user")

	token := loginToken(t, router, "eve", "pw")
	rec := getWithToken(t, router, "/admin/search-users-autocomplete?q=a", token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Permission denied.", resp.Message)
}

func TestAutocompleteSearch(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})
	seedUser(t, repo, "john", "pw", "admin")
	seedUser(t, repo, "anna", "pw", "user")
	seedUser(t, repo, "annabelle", "pw", "user")
	seedUser(t, repo, "zed", "pw", "user")

	token := loginToken(t, router, "john", "pw")
	rec := getWithToken(t, router, "/admin/search-users-autocomplete?q=ann", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "User list retrieved.", resp.Message)
	require.Equal(t, []string{"anna", "annabelle"}, resp.Users)
}

func TestAutocompleteSearchNoMatches(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})
	seedUser(t, repo, "john", "pw", "admin")

	token := loginToken(t, router, "john", "pw")
	rec := getWithToken(t, router, "/admin/search-users-autocomplete?q=xyz", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Users)
	require.Empty(t, resp.Users)

	// Zero matches still serialize the array, never omit it.
	require.Contains(t, rec.Body.String(), `"users":[]`)
}

func TestAdminSearchUser(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})
	seedUser(t, repo, "john", "pw", "admin")
	seedUser(t, repo, "anna", "pw", "user")

	token := loginToken(t, router, "john", "pw")

	rec := getWithToken(t, router, "/admin/search-user", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Username parameter is required.", resp.Message)

	rec = getWithToken(t, router, "/admin/search-user?username=anna", token)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = Response{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.User)
	require.Equal(t, "anna", resp.User.Username)
	require.Equal(t, "anna@example.com", resp.User.Email)

	rec = getWithToken(t, router, "/admin/search-user?username=ghost", token)
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp = Response{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, `User "ghost" not found.`, resp.Message)
}

func TestAdminRejectsForgedToken(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})
	seedUser(t, repo, "john", "pw", "admin")

	forged, err := issueToken("john", []byte("some-other-secret"), defaultTokenTTL)
	require.NoError(t, err)

	rec := getWithToken(t, router, "/admin/search-users-autocomplete?q=a", forged)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
