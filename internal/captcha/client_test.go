package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresSecretKey(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrMissingSecretKey) {
		t.Errorf("expected ErrMissingSecretKey, got %v", err)
	}
}

func TestVerifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		if req.Secret != "sk-test" {
			t.Errorf("expected secret sk-test, got %s", req.Secret)
		}

		if req.Response != "tok-1" {
			t.Errorf("expected token tok-1, got %s", req.Response)
		}

		if req.RemoteIP != "203.0.113.9" {
			t.Errorf("expected remote ip 203.0.113.9, got %s", req.RemoteIP)
		}

		_ = json.NewEncoder(w).Encode(verifyResponse{Success: true})
	}))
	defer server.Close()

	client, err := New("sk-test", WithVerifyURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}

	if err := client.Verify(context.Background(), "tok-1", "203.0.113.9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(verifyResponse{
			Success:    false,
			ErrorCodes: []string{"invalid-input-response"},
		})
	}))
	defer server.Close()

	client, err := New("sk-test", WithVerifyURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}

	err = client.Verify(context.Background(), "bad-token", "")
	if !errors.Is(err, ErrTokenRejected) {
		t.Errorf("expected ErrTokenRejected, got %v", err)
	}
}

func TestVerifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New("sk-test", WithVerifyURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}

	if err := client.Verify(context.Background(), "tok-1", ""); err == nil {
		t.Fatal("expected error for upstream server error")
	}
}

// an unreachable verification service must reject, never silently pass
func TestVerifyFailsClosedOnNetworkError(t *testing.T) {
	client, err := New("sk-test", WithVerifyURL("http://localhost:1/siteverify"), WithHTTPClient(&http.Client{}))
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}

	err = client.Verify(context.Background(), "tok-1", "")
	if !errors.Is(err, ErrVerificationUnavailable) {
		t.Errorf("expected ErrVerificationUnavailable, got %v", err)
	}
}
