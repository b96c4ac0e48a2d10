package scripts

import (
	"errors"
	"time"
)

// StorageKey is the fixed key under which the collection is persisted.
const StorageKey = "powershell-scripts"

var (
	ErrNotFound     = errors.New("script not found")
	ErrEmptyName    = errors.New("script name is required")
	ErrEmptyContent = errors.New("script content is required")
	ErrNotLoaded    = errors.New("scripts not loaded")
)

// Script is a named, user-authored script body.
// The ID is the collection key and is not repeated in the stored value.
type Script struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Collection maps script IDs to scripts. It is the persisted document.
type Collection map[string]Script

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for id, s := range c {
		out[id] = s
	}
	return out
}
