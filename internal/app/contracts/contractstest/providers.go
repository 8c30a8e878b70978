package contractstest

import (
	"context"
	"errors"
	"fmt"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/exceptions"
	"sync"
	"time"
)

type identity struct {
	email    string
	password string
}

// IdentityDirectory is an in-memory identity provider.
type IdentityDirectory struct {
	mu         sync.Mutex
	identities map[string]identity
	nextID     int
	Errors     map[string]error
}

func NewIdentityDirectory() *IdentityDirectory {
	return &IdentityDirectory{identities: map[string]identity{}, Errors: map[string]error{}}
}

// Register adds an identity with a fixed id.
func (d *IdentityDirectory) Register(id, email, password string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities[id] = identity{email: email, password: password}
}

func (d *IdentityDirectory) Exists(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.identities[id]
	return ok
}

func (d *IdentityDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.identities)
}

func (d *IdentityDirectory) LookupByEmail(ctx context.Context, email string) (string, error) {
	if err := d.Errors["LookupByEmail"]; err != nil {
		return "", exceptions.ErrIdentityLookup(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ident := range d.identities {
		if ident.email == email {
			return id, nil
		}
	}
	return "", exceptions.ErrAccountNotFound(errors.New("identity not found"), email)
}

func (d *IdentityDirectory) Create(ctx context.Context, email, password string) (string, error) {
	if err := d.Errors["Create"]; err != nil {
		return "", exceptions.ErrIdentityCreate(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ident := range d.identities {
		if ident.email == email {
			return "", exceptions.ErrEmailAlreadyExist(nil)
		}
	}
	d.nextID++
	id := fmt.Sprintf("identity-%d", d.nextID)
	d.identities[id] = identity{email: email, password: password}
	return id, nil
}

func (d *IdentityDirectory) Authenticate(ctx context.Context, email, password string) (string, error) {
	if err := d.Errors["Authenticate"]; err != nil {
		return "", exceptions.ErrIdentityAuthenticate(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ident := range d.identities {
		if ident.email == email && ident.password == password {
			return id, nil
		}
	}
	return "", exceptions.ErrInvalidEmailOrPassword(errors.New("wrong credentials"))
}

func (d *IdentityDirectory) Update(ctx context.Context, identityID string, email, password *string) error {
	if err := d.Errors["Update"]; err != nil {
		return exceptions.ErrIdentityUpdate(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	ident, ok := d.identities[identityID]
	if !ok {
		return exceptions.ErrAccountNotFound(errors.New("identity not found"), identityID)
	}
	if email != nil {
		ident.email = *email
	}
	if password != nil {
		ident.password = *password
	}
	d.identities[identityID] = ident
	return nil
}

func (d *IdentityDirectory) Delete(ctx context.Context, identityID string) error {
	if err := d.Errors["Delete"]; err != nil {
		return exceptions.ErrIdentityDelete(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.identities, identityID)
	return nil
}

// AuditRecorder collects published events.
type AuditRecorder struct {
	mu     sync.Mutex
	events []models.AuditEvent
	Err    error
}

func (r *AuditRecorder) Publish(ctx context.Context, event *models.AuditEvent) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *AuditRecorder) Types() []models.AuditEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]models.AuditEventType, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}

// Locker is an in-process lock table with the same non-blocking contract as
// the redis locker.
type Locker struct {
	mu     sync.Mutex
	held   map[string]string
	next   int
	Err    error
	Denied map[string]bool
}

func NewLocker() *Locker {
	return &Locker{held: map[string]string{}, Denied: map[string]bool{}}
}

func (l *Locker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if l.Err != nil {
		return false, "", exceptions.ErrRedisSet(l.Err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Denied[key] {
		return false, "", nil
	}
	if _, taken := l.held[key]; taken {
		return false, "", nil
	}
	l.next++
	value := fmt.Sprintf("owner-%d", l.next)
	l.held[key] = value
	return true, value, nil
}

func (l *Locker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != lockValue {
		return exceptions.ErrRedisUnlock(errors.New("not owner"))
	}
	delete(l.held, key)
	return nil
}

func (l *Locker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}

// SessionStore keeps sessions in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]models.Session{}}
}

func (s *SessionStore) CreateSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = *session
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, exceptions.ErrSessionNotFound(errors.New("session not found"))
	}
	return &session, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
