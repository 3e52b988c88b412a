package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserInfo(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakeContactRepo{})
	seedUser(t, repo, "anna", "pw", "user")

	rec := getWithToken(t, router, "/user-info?username=anna", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "User found.", resp.Message)
	require.NotNil(t, resp.User)
	require.Equal(t, "anna", resp.User.Username)
}

func TestUserInfoNotFound(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), &fakeContactRepo{})

	rec := getWithToken(t, router, "/user-info?username=ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "User not found.", resp.Message)
}
