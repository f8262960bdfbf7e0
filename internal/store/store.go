// Package store holds the item and admin storage backends. The SQLite
// backend is the persistent one; the memory backend exists for ephemeral
// demo deployments. Both satisfy the same interfaces so the rest of the
// application never touches a concrete backend.
package store

import (
	"context"
	"errors"

	"findr/internal/model"
)

// Sentinel errors returned by storage backends.
var (
	// ErrNotFound means the requested item or admin does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyFound means a redemption raced or repeated: the item's
	// found flag was already set when MarkFound ran.
	ErrAlreadyFound = errors.New("item already found")
)

// ItemFields are the editable fields of an item. The found flag is not
// among them: it is only ever set by MarkFound.
type ItemFields struct {
	Name       string
	Clue       string
	Code       string
	Directions string
}

// Items is the item storage contract.
type Items interface {
	// ListItems returns all items in insertion order.
	ListItems(ctx context.Context) ([]model.Item, error)

	// ListHidden returns the items with found == false, in insertion order.
	ListHidden(ctx context.Context) ([]model.Item, error)

	// GetItem returns an item by ID, or ErrNotFound.
	GetItem(ctx context.Context, id int64) (*model.Item, error)

	// FindByCode returns the item with the given redemption code, or
	// ErrNotFound. If two items share a code, the hidden one wins.
	FindByCode(ctx context.Context, code string) (*model.Item, error)

	// CreateItem inserts a new item with found == false and a fresh ID.
	CreateItem(ctx context.Context, fields ItemFields) (*model.Item, error)

	// UpdateItem replaces the editable fields of an item, preserving its
	// found flag. Returns ErrNotFound if the item does not exist.
	UpdateItem(ctx context.Context, id int64, fields ItemFields) error

	// DeleteItem removes an item. Returns ErrNotFound if it does not exist.
	DeleteItem(ctx context.Context, id int64) error

	// MarkFound flips the found flag and records the proof photo URL.
	// The check-and-set is atomic: of two concurrent calls for the same
	// item, exactly one succeeds and the other gets ErrAlreadyFound.
	MarkFound(ctx context.Context, id int64, photoURL string) error
}

// Admins is the admin account storage contract.
type Admins interface {
	// CreateAdmin inserts an admin account with a pre-hashed password.
	CreateAdmin(ctx context.Context, username, passwordHash string) (*model.Admin, error)

	// GetAdminByUsername returns an admin by username, or ErrNotFound.
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
}
