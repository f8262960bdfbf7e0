package store

import (
	"context"
	"sync"
	"time"

	"findr/internal/model"
)

// Memory is the in-memory storage backend for ephemeral deployments.
// All state is lost on restart. IDs are assigned from a counter that
// never decrements, so deleting an item never invalidates the IDs of
// the items behind it.
type Memory struct {
	mu     sync.Mutex
	items  []*model.Item
	admins []*model.Admin
	nextID int64
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// CreateItem inserts a new item with found == false.
func (m *Memory) CreateItem(ctx context.Context, fields ItemFields) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	item := &model.Item{
		ID:         m.nextID,
		Name:       fields.Name,
		Clue:       fields.Clue,
		Code:       fields.Code,
		Directions: fields.Directions,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.nextID++
	m.items = append(m.items, item)

	out := *item
	return &out, nil
}

// GetItem returns an item by ID.
func (m *Memory) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.find(id)
	if item == nil {
		return nil, ErrNotFound
	}
	out := *item
	return &out, nil
}

// FindByCode returns the item with the given redemption code, preferring
// a hidden item over a found one when codes collide.
func (m *Memory) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fallback *model.Item
	for _, item := range m.items {
		if item.Code != code {
			continue
		}
		if !item.Found {
			out := *item
			return &out, nil
		}
		if fallback == nil {
			fallback = item
		}
	}
	if fallback == nil {
		return nil, ErrNotFound
	}
	out := *fallback
	return &out, nil
}

// ListItems returns all items in insertion order.
func (m *Memory) ListItems(ctx context.Context) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]model.Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, *item)
	}
	return items, nil
}

// ListHidden returns the items not yet found, in insertion order.
func (m *Memory) ListHidden(ctx context.Context) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []model.Item
	for _, item := range m.items {
		if !item.Found {
			items = append(items, *item)
		}
	}
	return items, nil
}

// UpdateItem replaces the editable fields of an item, preserving found.
func (m *Memory) UpdateItem(ctx context.Context, id int64, fields ItemFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.find(id)
	if item == nil {
		return ErrNotFound
	}
	item.Name = fields.Name
	item.Clue = fields.Clue
	item.Code = fields.Code
	item.Directions = fields.Directions
	item.UpdatedAt = time.Now()
	return nil
}

// DeleteItem removes an item.
func (m *Memory) DeleteItem(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MarkFound flips the found flag under the lock, so only one of two
// concurrent redemptions can observe found == false.
func (m *Memory) MarkFound(ctx context.Context, id int64, photoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.find(id)
	if item == nil {
		return ErrNotFound
	}
	if item.Found {
		return ErrAlreadyFound
	}

	now := time.Now()
	item.Found = true
	item.PhotoURL = photoURL
	item.FoundAt = &now
	item.UpdatedAt = now
	return nil
}

// CreateAdmin inserts an admin account with a pre-hashed password.
func (m *Memory) CreateAdmin(ctx context.Context, username, passwordHash string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	admin := &model.Admin{
		ID:           int64(len(m.admins) + 1),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.admins = append(m.admins, admin)

	out := *admin
	return &out, nil
}

// GetAdminByUsername returns an admin account by username.
func (m *Memory) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, admin := range m.admins {
		if admin.Username == username {
			out := *admin
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// find returns the backing item for an ID. Caller must hold the lock.
func (m *Memory) find(id int64) *model.Item {
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
