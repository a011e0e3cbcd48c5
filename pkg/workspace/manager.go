package workspace

import (
	"time"

	"ai-forge-be/internal/constant"
	"ai-forge-be/internal/repository/memory"
	"ai-forge-be/pkg/store"
)

// Manager handles workspace lifecycle
type Manager struct {
	repo *memory.SessionRepository
	now  func() time.Time
}

// NewManager creates a new workspace manager
func NewManager(repo *memory.SessionRepository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// Create starts a workspace whose transcript opens with the greeting
func (m *Manager) Create() *store.Workspace {
	now := m.now()
	ws := store.NewWorkspace(now)
	ws.Conversation.Append(store.Turn{
		Role:      store.RoleModel,
		Text:      constant.GreetingMessage,
		Timestamp: now,
		Synthetic: true,
	})
	m.repo.Save(ws)
	return ws
}

// Load retrieves a workspace and refreshes its expiry
func (m *Manager) Load(id string) (*store.Workspace, bool) {
	ws, ok := m.repo.Get(id)
	if !ok {
		return nil, false
	}
	m.repo.Save(ws)
	return ws, true
}

// Delete discards a workspace
func (m *Manager) Delete(id string) bool {
	if _, ok := m.repo.Get(id); !ok {
		return false
	}
	m.repo.Delete(id)
	return true
}
