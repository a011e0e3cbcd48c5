package store

import "github.com/google/uuid"

// ContextItem is one uploaded file offered to the completion provider.
// Payload holds raw text when IsText, otherwise standard base64.
type ContextItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MediaType string    `json:"media_type"`
	ByteSize  int64     `json:"byte_size"`
	Payload   string    `json:"payload"`
	IsText    bool      `json:"is_text"`
}

// ContextStore holds uploaded items in upload order
type ContextStore struct {
	items []ContextItem
}

func (s *ContextStore) Add(items ...ContextItem) {
	s.items = append(s.items, items...)
}

// Remove drops the item with the given id and reports whether it existed
func (s *ContextStore) Remove(id uuid.UUID) bool {
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy that later Add/Remove calls do not affect
func (s *ContextStore) Snapshot() []ContextItem {
	out := make([]ContextItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *ContextStore) Len() int {
	return len(s.items)
}

func (s *ContextStore) TotalBytes() int64 {
	var total int64
	for _, item := range s.items {
		total += item.ByteSize
	}
	return total
}
