package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultPostURL = "https://api.x.com/2/tweets"

// X posts announcements as short status updates.
type X struct {
	// BearerToken authorizes the post-text call.
	BearerToken string

	// PostURL defaults to the v2 tweet endpoint; overridable for tests.
	PostURL string

	// HTTPClient defaults to one with RequestTimeout.
	HTTPClient *http.Client
}

// NewX creates an announcement sink posting with the given token.
func NewX(bearerToken string) *X {
	return &X{BearerToken: bearerToken}
}

// AnnounceHidden posts the new-item alert.
func (x *X) AnnounceHidden(ctx context.Context, itemName string) error {
	return x.post(ctx, fmt.Sprintf("NEW HIDDEN ITEM ALERT | %s", itemName))
}

// AnnounceFound posts the item-found message.
func (x *X) AnnounceFound(ctx context.Context, itemName string) error {
	return x.post(ctx, fmt.Sprintf("ITEM FOUND | %s", itemName))
}

func (x *X) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encoding post: %w", err)
	}

	postURL := x.PostURL
	if postURL == "" {
		postURL = defaultPostURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building post request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+x.BearerToken)
	req.Header.Set("Content-Type", "application/json")

	client := x.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: RequestTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting announcement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("posting announcement: status %d: %s", resp.StatusCode, b)
	}
	return nil
}
