package announce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestXAnnouncements(t *testing.T) {
	var posts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		posts = append(posts, body.Text)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	sink := &X{BearerToken: "token", PostURL: server.URL}
	ctx := context.Background()

	if err := sink.AnnounceHidden(ctx, "Key"); err != nil {
		t.Fatalf("AnnounceHidden: %v", err)
	}
	if err := sink.AnnounceFound(ctx, "Key"); err != nil {
		t.Fatalf("AnnounceFound: %v", err)
	}

	want := []string{"NEW HIDDEN ITEM ALERT | Key", "ITEM FOUND | Key"}
	if len(posts) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(posts))
	}
	for i := range want {
		if posts[i] != want[i] {
			t.Errorf("post %d: expected %q, got %q", i, want[i], posts[i])
		}
	}
}

func TestXFailureReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	sink := &X{BearerToken: "token", PostURL: server.URL}
	if err := sink.AnnounceFound(context.Background(), "Key"); err == nil {
		t.Error("expected error on failed post")
	}
}
