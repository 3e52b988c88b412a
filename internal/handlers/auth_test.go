package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func signupForm(username, email, password, phone string) url.Values {
	form := url.Values{}
	form.Set("username", username)
	form.Set("email", email)
	form.Set("password", password)
	form.Set("phone", phone)
	return form
}

func loginForm(username, password string) url.Values {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return form
}

func TestSignupThenLogin(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), &fakeContactRepo{})

	rec := postForm(t, router, "/signup", signupForm("alice", "alice@example.com", "s3cret", "0123456789"))
	require.Equal(t, http.StatusOK, rec.Code)

	var signupResp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signupResp))
	require.True(t, signupResp.Success)
	require.Equal(t, "Signup successful! You can now login.", signupResp.Message)

	rec = postForm(t, router, "/login", loginForm("alice", "s3cret"))
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.True(t, loginResp.Success)
	require.NotNil(t, loginResp.User)
	require.Equal(t, "alice", loginResp.User.Username)
	require.Equal(t, "user", loginResp.User.Role)
	require.Equal(t, "alice@example.com", loginResp.User.Email)
	require.NotEmpty(t, loginResp.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), &fakeContactRepo{})

	rec := postForm(t, router, "/signup", signupForm("bob", "bob@example.com", "right-password", "0123456789"))
	require.Equal(t, http.StatusOK, rec.Code)

	wrongPassword := postForm(t, router, "/login", loginForm("bob", "wrong-password"))
	unknownUser := postForm(t, router, "/login", loginForm("nobody", "whatever"))

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, wrongPassword.Body.Bytes(), unknownUser.Body.Bytes())

	var resp Response
	require.NoError(t, json.Unmarshal(wrongPassword.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "Wrong username or password", resp.Message)
}

func TestLoginStorageFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.failWith = errors.New("connection refused")
	router := newTestRouter(repo, &fakeContactRepo{})

	rec := postForm(t, router, "/login", loginForm("alice", "s3cret"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "Error checking login", resp.Message)
}

func TestSignupDuplicateUsernameIsGeneric(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), &fakeContactRepo{})

	rec := postForm(t, router, "/signup", signupForm("carol", "carol@example.com", "pw", "0123456789"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postForm(t, router, "/signup", signupForm("carol", "other@example.com", "pw2", "0123456780"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "Error registering user (username may already exist)", resp.Message)
}

func TestSignupAlwaysCreatesPlainUser(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})

	form := signupForm("dave", "dave@example.com", "pw", "0123456789")
	form.Set("role", "admin") // extra fields are ignored
	rec := postForm(t, router, "/signup", form)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.GetByUsername(t.Context(), "dave")
	require.NoError(t, err)
	require.Equal(t, "user", stored.Role)
	require.NotEqual(t, "pw", stored.PasswordHash)
}
