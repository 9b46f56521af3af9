// Package session tracks authenticated card sessions. A session moves
// from authenticated to logged out exactly once; every operation after
// logout fails with domain.ErrSessionClosed.
package session

import (
	"sync"
	"time"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/domain"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/ledger"
	"github.com/google/uuid"
)

// Session binds one authenticated caller to exactly one account. It
// does not own the account; the directory does.
type Session struct {
	mu        sync.Mutex
	id        string
	account   *ledger.Account
	createdAt time.Time
	closed    bool
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Account returns the bound account, or ErrSessionClosed after logout.
func (s *Session) Account() (*ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	return s.account, nil
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Manager authenticates logins against the directory and hands out
// session handles.
type Manager struct {
	mu        sync.RWMutex
	directory *ledger.Directory
	sessions  map[string]*Session
}

func NewManager(directory *ledger.Directory) *Manager {
	return &Manager{
		directory: directory,
		sessions:  make(map[string]*Session),
	}
}

// Login authenticates cardNumber/pin and opens a new session bound to
// that account. Unknown cards and wrong PINs fail with the same error.
func (m *Manager) Login(cardNumber, pin string) (*Session, error) {
	account, err := m.directory.Authenticate(cardNumber, pin)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:        uuid.NewString(),
		account:   account,
		createdAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns the live session for id, or ErrSessionClosed when the
// id is unknown or already logged out.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionClosed
	}
	if _, err := s.Account(); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout closes the session for id. Logging out an unknown or already
// closed session is a no-op, so repeated logouts succeed.
func (m *Manager) Logout(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.close()
	}
}
