package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeDropbox emulates the three Dropbox endpoints the sink talks to.
func fakeDropbox(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var refreshes atomic.Int32
	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "refresh_token" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		refreshes.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-token",
			"expires_in":   14400,
		})
	})

	mux.HandleFunc("POST /2/files/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		var arg struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg); err != nil {
			http.Error(w, "bad arg", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"path_lower": strings.ToLower(arg.Path),
		})
	})

	mux.HandleFunc("POST /2/sharing/create_shared_link_with_settings", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"url": "https://www.dropbox.com/s/abc/photo.jpg?dl=0",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &refreshes
}

func TestDropboxStore(t *testing.T) {
	server, refreshes := fakeDropbox(t)

	tokens := &RefreshingToken{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh",
		TokenURL:     server.URL + "/oauth2/token",
	}
	sink := &Dropbox{
		Tokens:     tokens,
		ContentURL: server.URL,
		APIURL:     server.URL,
	}

	url, err := sink.Store(context.Background(), []byte("jpegdata"), "proof.jpg")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	if !strings.Contains(url, "dl.dropboxusercontent.com") {
		t.Errorf("expected direct-content host in URL, got %q", url)
	}
	if strings.Contains(url, "www.dropbox.com") {
		t.Errorf("sharing host must be rewritten, got %q", url)
	}
	if refreshes.Load() != 1 {
		t.Errorf("expected 1 token refresh, got %d", refreshes.Load())
	}
}

func TestRefreshingTokenCaches(t *testing.T) {
	server, refreshes := fakeDropbox(t)

	tokens := &RefreshingToken{
		RefreshToken: "refresh",
		TokenURL:     server.URL + "/oauth2/token",
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := tokens.Token(ctx); err != nil {
			t.Fatalf("Token: %v", err)
		}
	}
	if refreshes.Load() != 1 {
		t.Errorf("expected a single refresh for a fresh token, got %d", refreshes.Load())
	}

	// Force staleness and confirm a second refresh happens.
	tokens.expiry = time.Now().Add(-time.Minute)
	if _, err := tokens.Token(ctx); err != nil {
		t.Fatalf("Token after expiry: %v", err)
	}
	if refreshes.Load() != 2 {
		t.Errorf("expected refresh for a stale token, got %d", refreshes.Load())
	}
}

func TestDropboxStoreUploadFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	sink := &Dropbox{
		Tokens:     StaticToken("token"),
		ContentURL: server.URL,
		APIURL:     server.URL,
	}

	_, err := sink.Store(context.Background(), []byte("x"), "a.jpg")
	if !errors.Is(err, ErrUploadFailed) {
		t.Errorf("expected ErrUploadFailed, got %v", err)
	}
}
