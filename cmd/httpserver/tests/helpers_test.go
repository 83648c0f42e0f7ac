package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jaza/copernicus-api/cmd/httpserver"
	"github.com/Jaza/copernicus-api/internal/domain"
	"github.com/Jaza/copernicus-api/internal/middleware"
	"github.com/Jaza/copernicus-api/pkg/web"
)

func accountsURL(externalUserID string) string {
	return fmt.Sprintf("/external-users/%s/accounts/", externalUserID)
}

func accountURL(externalUserID, id string) string {
	return fmt.Sprintf("/external-users/%s/accounts/%s/", externalUserID, id)
}

// do sends an authorized request to s and returns the recorded response.
func do(t *testing.T, s *httpserver.Server, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	err = middleware.AddAuthorization(req, s.TokenMaker, middleware.AuthTypeBearer, "e2e", time.Minute)
	if err != nil {
		t.Fatalf("middleware.AddAuthorization returned error: %v", err)
	}

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, req)

	return recorder
}

func decodeAccount(t *testing.T, r *httptest.ResponseRecorder) domain.Account {
	t.Helper()

	var got domain.Account
	if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return got
}

func decodeError(t *testing.T, r *httptest.ResponseRecorder) string {
	t.Helper()

	var got web.Response
	if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return got.Error
}

// requireText checks that the response body is exactly want as plain text.
func requireText(t *testing.T, r *httptest.ResponseRecorder, want string) {
	t.Helper()

	if got := r.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("Content-Type: got %q, want text/plain", got)
	}

	if got := r.Body.String(); got != want {
		t.Fatalf("Body: got %q, want %q", got, want)
	}
}

func createAccount(t *testing.T, s *httpserver.Server, externalUserID string) domain.Account {
	t.Helper()

	r := do(t, s, http.MethodPost, accountsURL(externalUserID), "")
	if r.Code != http.StatusCreated {
		t.Fatalf("Status code: got %v, want %v, body %s", r.Code, http.StatusCreated, r.Body.String())
	}

	return decodeAccount(t, r)
}
