package memory

import (
	"time"

	"ai-forge-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps workspaces in process memory with a sliding TTL
type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository creates a cache whose entries expire after ttl of
// inactivity. A cleanup interval of 0 disables the janitor goroutine.
func NewSessionRepository(ttl, cleanup time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func (r *SessionRepository) Save(ws *store.Workspace) {
	r.cache.Set(ws.ID.String(), ws, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(workspaceID string) (*store.Workspace, bool) {
	if x, found := r.cache.Get(workspaceID); found {
		return x.(*store.Workspace), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(workspaceID string) {
	r.cache.Delete(workspaceID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
