package sim

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Call status labels matching the backend lifecycle.
const (
	CallStatusActive     = "active"
	CallStatusCompleted  = "completed"
	CallStatusTerminated = "terminated"
)

// User is a registered account.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// Contact is one address-book entry.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CallRecord is one history row.
type CallRecord struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Status      string    `json:"status"`
	StartTime   time.Time `json:"startTime"`
	Duration    int       `json:"duration"`
}

// activeCall tracks one in-progress call.
type activeCall struct {
	SID         string
	Username    string
	PhoneNumber string
	StartedAt   time.Time
}

// Store holds all simulator state in memory.
type Store struct {
	mu       sync.Mutex
	users    map[string]*User      // by username
	contacts map[string][]Contact  // by username
	calls    map[string]activeCall // by call SID
	history  map[string][]CallRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.users = make(map[string]*User)
	s.contacts = make(map[string][]Contact)
	s.calls = make(map[string]activeCall)
	s.history = make(map[string][]CallRecord)
}

// Reset clears all state. Used between tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// CreateUser registers an account with a bcrypt-hashed password.
func (s *Store) CreateUser(username, password, email, phoneNumber string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return nil, errUserExists
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		PhoneNumber:  phoneNumber,
	}
	s.users[username] = u
	return u, nil
}

// Authenticate verifies credentials and returns the account.
func (s *Store) Authenticate(username, password string) (*User, bool) {
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, false
	}
	return u, true
}

// GetUser looks an account up by username.
func (s *Store) GetUser(username string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	return u, ok
}

// newCallSID mints a Twilio-shaped call SID.
func newCallSID() string {
	return "CA" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// StartCall opens a call for the user. A user has at most one active
// call; a second attempt is rejected.
func (s *Store) StartCall(username, phoneNumber string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.Username == username {
			return "", errCallInProgress
		}
	}
	sid := newCallSID()
	s.calls[sid] = activeCall{
		SID:         sid,
		Username:    username,
		PhoneNumber: phoneNumber,
		StartedAt:   time.Now(),
	}
	return sid, nil
}

// EndCall closes the call with the given SID and appends a history
// record with the server-observed duration.
func (s *Store) EndCall(username, sid string) (CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[sid]
	if !ok || c.Username != username {
		return CallRecord{}, errCallNotFound
	}
	delete(s.calls, sid)
	rec := CallRecord{
		ID:          c.SID,
		PhoneNumber: c.PhoneNumber,
		Status:      CallStatusCompleted,
		StartTime:   c.StartedAt,
		Duration:    int(time.Since(c.StartedAt) / time.Second),
	}
	s.history[username] = append(s.history[username], rec)
	return rec, nil
}

// History returns the user's call records, newest first.
func (s *Store) History(username string) []CallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := append([]CallRecord(nil), s.history[username]...)
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.After(records[j].StartTime)
	})
	return records
}

// Contacts returns the user's contacts, optionally filtered by a
// case-insensitive search over name and number.
func (s *Store) Contacts(username, search string) []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.contacts[username]
	if search == "" {
		return append([]Contact(nil), all...)
	}
	needle := strings.ToLower(search)
	var out []Contact
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(c.PhoneNumber, search) {
			out = append(out, c)
		}
	}
	return out
}

// AddContact stores a contact and assigns it an ID.
func (s *Store) AddContact(username string, c Contact) Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	s.contacts[username] = append(s.contacts[username], c)
	return c
}

// UpdateContact replaces the contact with the given ID.
func (s *Store) UpdateContact(username, id string, c Contact) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.contacts[username]
	for i := range list {
		if list[i].ID == id {
			c.ID = id
			list[i] = c
			return c, true
		}
	}
	return Contact{}, false
}

// DeleteContact removes the contact with the given ID.
func (s *Store) DeleteContact(username, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.contacts[username]
	for i := range list {
		if list[i].ID == id {
			s.contacts[username] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}
