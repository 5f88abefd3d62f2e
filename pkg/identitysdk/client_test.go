package identitysdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ridesafe/identity/pkg/identitysdk"
	"github.com/stretchr/testify/require"
)

func TestLogin_TwoFactorRequiredThenSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req identitysdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Code == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(identitysdk.ErrorResponse{
				Message:           "Two-factor authentication code required",
				Type:              "unauthenticated",
				TwoFactorRequired: true,
			})
			return
		}
		_ = json.NewEncoder(w).Encode(identitysdk.SessionResponse{
			Success: true,
			Token:   "tok-1",
			Account: identitysdk.Account{ID: "acc-1", Username: "ada", Role: "rider"},
		})
	})
	mux.HandleFunc("GET /verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(identitysdk.AccountResponse{Success: true, Account: identitysdk.Account{ID: "acc-1"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	client := identitysdk.NewClient(srv.URL + "/")

	_, _, err := client.Login(ctx, identitysdk.LoginRequest{Identifier: "ada", Password: "pw"})
	require.Error(t, err)
	require.True(t, identitysdk.IsTwoFactorRequired(err))
	require.Equal(t, http.StatusUnauthorized, identitysdk.StatusCode(err))

	s, resp, err := client.Login(ctx, identitysdk.LoginRequest{Identifier: "ada", Password: "pw", Code: "123456"})
	require.NoError(t, err)
	require.Equal(t, "tok-1", s.Token())
	require.Equal(t, "ada", resp.Account.Username)

	me, err := s.Verify(ctx)
	require.NoError(t, err)
	require.Equal(t, "acc-1", me.ID)
}

func TestAPIError_CarriesViolations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(identitysdk.ErrorResponse{
			Message: "Validation failed",
			Type:    "validation_error",
			Errors: []identitysdk.FieldError{
				{Field: "name", Message: "Name is required"},
			},
		})
	}))
	defer srv.Close()

	s := identitysdk.NewClient(srv.URL).SessionFromToken("tok")
	_, err := s.AddContact(context.Background(), identitysdk.ContactRequest{})

	var apiErr *identitysdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Len(t, apiErr.Errors, 1)
	require.Equal(t, "name", apiErr.Errors[0].Field)
	require.Contains(t, apiErr.Error(), "Validation failed")
	require.False(t, identitysdk.IsTwoFactorRequired(err))
}

func TestChangePassword_AdoptsNewToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/profile/password", r.URL.Path)
		require.Equal(t, "Bearer old", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(identitysdk.PasswordChangedResponse{Success: true, Token: "new"})
	}))
	defer srv.Close()

	s := identitysdk.NewClient(srv.URL).SessionFromToken("old")
	require.NoError(t, s.ChangePassword(context.Background(), identitysdk.ChangePasswordRequest{
		CurrentPassword: "a", Password: "b", ConfirmPassword: "b",
	}))
	require.Equal(t, "new", s.Token())
}

func TestListUsers_IncludeAdminsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(identitysdk.AccountsResponse{Success: true, Count: 1, Accounts: []identitysdk.Account{{ID: "a"}}})
	}))
	defer srv.Close()

	users, err := identitysdk.NewClient(srv.URL).SessionFromToken("t").ListUsers(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "includeAdmins=true", gotQuery)
}
