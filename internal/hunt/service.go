// Package hunt implements the item lifecycle: the admin hide/edit/remove
// operations and the found/redeem workflow. It exposes plain data and
// sentinel errors; rendering is the callers' problem.
package hunt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"findr/internal/announce"
	"findr/internal/imaging"
	"findr/internal/model"
	"findr/internal/store"
	"findr/internal/uploads"
)

// User-input errors. These render as retry prompts, not server failures.
var (
	// ErrInvalidCode means the submitted code matches no hidden item.
	ErrInvalidCode = errors.New("invalid code")

	// ErrCodeMismatch means the re-typed code does not match the item.
	ErrCodeMismatch = errors.New("code mismatch")

	// ErrBadPhoto means the uploaded proof is not a usable image.
	ErrBadPhoto = errors.New("bad photo")
)

// Service orchestrates the item store, the photo sink, and the
// announcement channel.
type Service struct {
	items    store.Items
	photos   uploads.Sink
	announce announce.Sink
}

// New wires a hunt service.
func New(items store.Items, photos uploads.Sink, ann announce.Sink) *Service {
	return &Service{items: items, photos: photos, announce: ann}
}

// Redemption is the outcome of a successful redeem: the found item
// (directions included) and the hosted proof photo.
type Redemption struct {
	Item     *model.Item
	PhotoURL string
}

// Hidden lists the items still waiting to be found.
func (s *Service) Hidden(ctx context.Context) ([]model.Item, error) {
	return s.items.ListHidden(ctx)
}

// All lists every item, found or not, for the admin view.
func (s *Service) All(ctx context.Context) ([]model.Item, error) {
	return s.items.ListItems(ctx)
}

// Get returns a single item for the admin edit form.
func (s *Service) Get(ctx context.Context, id int64) (*model.Item, error) {
	return s.items.GetItem(ctx, id)
}

// Lookup resolves a submitted code to a hidden item. An unknown code and
// an already-found item both come back as ErrInvalidCode: hunters get no
// signal about codes of claimed items.
func (s *Service) Lookup(ctx context.Context, code string) (*model.Item, error) {
	item, err := s.items.FindByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	if item.Found {
		return nil, ErrInvalidCode
	}
	return item, nil
}

// Redeem finalizes a find: re-verify the code, host the proof photo, flip
// the found flag, announce. The order is load-bearing: the photo must be
// hosted before the flag flips, and the flag must be persisted before the
// announcement fires, so an announcement never references an item that
// failed to persist as found. Every failure leaves the found flag
// unchanged.
func (s *Service) Redeem(ctx context.Context, code, inputCode string, photo []byte, photoName string) (*Redemption, error) {
	item, err := s.items.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item.Found {
		return nil, store.ErrAlreadyFound
	}
	if inputCode != item.Code {
		return nil, ErrCodeMismatch
	}

	processed, err := imaging.Process(bytes.NewReader(photo))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPhoto, err)
	}

	photoURL, err := s.photos.Store(ctx, processed.Data, jpegName(photoName))
	if err != nil {
		return nil, err
	}

	if err := s.items.MarkFound(ctx, item.ID, photoURL); err != nil {
		// The photo is already hosted; log its URL so the orphan can be
		// cleaned up by hand. No compensating delete.
		slog.Warn("redemption not finalized after upload",
			"item", item.Name, "photo_url", photoURL, "error", err)
		return nil, err
	}

	if err := s.announce.AnnounceFound(ctx, item.Name); err != nil {
		slog.Warn("failed to announce found item", "item", item.Name, "error", err)
	}

	found, err := s.items.GetItem(ctx, item.ID)
	if err != nil {
		// The redemption committed; fall back to the pre-update copy.
		item.Found = true
		item.PhotoURL = photoURL
		found = item
	}

	return &Redemption{Item: found, PhotoURL: photoURL}, nil
}

// Add hides a new item and announces it. A dead announcement channel does
// not fail the add.
func (s *Service) Add(ctx context.Context, fields store.ItemFields) (*model.Item, error) {
	item, err := s.items.CreateItem(ctx, fields)
	if err != nil {
		return nil, err
	}

	if err := s.announce.AnnounceHidden(ctx, item.Name); err != nil {
		slog.Warn("failed to announce hidden item", "item", item.Name, "error", err)
	}

	return item, nil
}

// Edit replaces an item's editable fields. The found flag survives edits.
func (s *Service) Edit(ctx context.Context, id int64, fields store.ItemFields) error {
	return s.items.UpdateItem(ctx, id, fields)
}

// Remove deletes an item outright.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.items.DeleteItem(ctx, id)
}

// jpegName swaps the photo's extension for .jpg, since imaging re-encodes
// everything as JPEG.
func jpegName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
}
