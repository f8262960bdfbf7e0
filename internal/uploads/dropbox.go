package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Default Dropbox endpoints, overridable for tests.
const (
	dropboxContentURL = "https://content.dropboxapi.com"
	dropboxAPIURL     = "https://api.dropboxapi.com"
)

// tokenSlack is subtracted from a token's expiry so a token that is about
// to expire mid-upload gets refreshed up front.
const tokenSlack = time.Minute

// TokenSource supplies a valid bearer token, refreshing it if needed.
// It decouples the refresh policy from the upload flow.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a token that never expires (tests,
// short-lived scripts).
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// RefreshingToken exchanges a long-lived refresh credential for short-lived
// access tokens via the OAuth2 refresh-token grant, caching the result
// until shortly before expiry.
type RefreshingToken struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// HTTPClient defaults to one with RequestTimeout.
	HTTPClient *http.Client

	// TokenURL defaults to the Dropbox OAuth2 endpoint.
	TokenURL string

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// Token returns the cached access token, refreshing it if it is missing
// or within tokenSlack of expiring.
func (r *RefreshingToken) Token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && time.Now().Before(r.expiry.Add(-tokenSlack)) {
		return r.token, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {r.RefreshToken},
		"client_id":     {r.ClientID},
		"client_secret": {r.ClientSecret},
	}

	tokenURL := r.TokenURL
	if tokenURL == "" {
		tokenURL = dropboxAPIURL + "/oauth2/token"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("refreshing token: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	r.token = payload.AccessToken
	r.expiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return r.token, nil
}

func (r *RefreshingToken) httpClient() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return &http.Client{Timeout: RequestTimeout}
}

// Dropbox uploads photos to a Dropbox app folder and returns a public
// share link rewritten to the direct-content host so it renders inline.
type Dropbox struct {
	Tokens TokenSource

	// HTTPClient defaults to one with RequestTimeout.
	HTTPClient *http.Client

	// ContentURL and APIURL default to the real Dropbox hosts.
	ContentURL string
	APIURL     string
}

// NewDropbox creates a Dropbox sink using the given token source.
func NewDropbox(tokens TokenSource) *Dropbox {
	return &Dropbox{Tokens: tokens}
}

// Store uploads the photo, creates a public share link for it, and
// returns the link pointed at the direct-content host.
func (d *Dropbox) Store(ctx context.Context, data []byte, originalName string) (string, error) {
	token, err := d.Tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	path := fmt.Sprintf("/uploads/%d_%s", time.Now().UnixMilli(), originalName)

	uploadedPath, err := d.upload(ctx, token, path, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	link, err := d.createSharedLink(ctx, token, uploadedPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	// The sharing domain serves an HTML preview page; the usercontent
	// host serves the raw file, so the URL works in an <img> tag.
	return strings.Replace(link, "www.dropbox.com", "dl.dropboxusercontent.com", 1), nil
}

func (d *Dropbox) upload(ctx context.Context, token, path string, data []byte) (string, error) {
	arg, err := json.Marshal(map[string]any{
		"path":       path,
		"mode":       "add",
		"autorename": true,
		"mute":       false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding upload arg: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.contentURL()+"/2/files/upload", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Dropbox-API-Arg", string(arg))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := d.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("uploading photo: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		PathLower string `json:"path_lower"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	return payload.PathLower, nil
}

func (d *Dropbox) createSharedLink(ctx context.Context, token, path string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"path": path,
		"settings": map[string]any{
			"requested_visibility": "public",
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding share request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.apiURL()+"/2/sharing/create_shared_link_with_settings", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building share request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("creating shared link: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("creating shared link: status %d: %s", resp.StatusCode, b)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding share response: %w", err)
	}
	return payload.URL, nil
}

func (d *Dropbox) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return &http.Client{Timeout: RequestTimeout}
}

func (d *Dropbox) contentURL() string {
	if d.ContentURL != "" {
		return d.ContentURL
	}
	return dropboxContentURL
}

func (d *Dropbox) apiURL() string {
	if d.APIURL != "" {
		return d.APIURL
	}
	return dropboxAPIURL
}
