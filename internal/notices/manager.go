// Package notices keeps dismissible user notices in the visitor's session.
// A notice is shown once: reading the queue empties it.
package notices

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/cocktails/internal/entities"
)

const sessionKeyNotices = "notices"

// maxQueued bounds the queue so an idle client cannot grow its session forever.
const maxQueued = 20

// Config controls the session cookie.
type Config struct {
	Lifetime      time.Duration
	SecureCookies bool
}

// Manager stores notices in scs sessions.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session-backed notice manager. Sessions are stored in
// the sessions table of sqlDB, which is created if missing. A nil sqlDB keeps
// sessions in memory.
func NewManager(sqlDB *sql.DB, cfg Config) (*Manager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	}

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}
	sm.Cookie.Name = "cocktails_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// Push appends a notice to the session queue.
func (m *Manager) Push(ctx context.Context, notice entities.Notice) {
	queue := m.peek(ctx)
	queue = append(queue, notice)
	if len(queue) > maxQueued {
		queue = queue[len(queue)-maxQueued:]
	}

	data, err := json.Marshal(queue)
	if err != nil {
		log.Printf("Notices: encode failed: %v", err)
		return
	}
	m.Put(ctx, sessionKeyNotices, string(data))
}

// Pop returns and clears the queued notices, oldest first.
func (m *Manager) Pop(ctx context.Context) []entities.Notice {
	raw := m.PopString(ctx, sessionKeyNotices)
	return decode(raw)
}

// Pending returns the queued notices without clearing them.
func (m *Manager) Pending(ctx context.Context) []entities.Notice {
	return m.peek(ctx)
}

func (m *Manager) peek(ctx context.Context) []entities.Notice {
	return decode(m.GetString(ctx, sessionKeyNotices))
}

func decode(raw string) []entities.Notice {
	queue := []entities.Notice{}
	if raw == "" {
		return queue
	}
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		log.Printf("Notices: dropping unreadable queue: %v", err)
		return []entities.Notice{}
	}
	return queue
}
