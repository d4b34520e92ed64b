package sim

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/dialforge/dialtone/internal/util"
)

// maxBodySize bounds every request body the simulator accepts.
const maxBodySize = 64 * 1024

// minDialableLength mirrors the client's own pre-flight check so a
// client that skips validation still gets a sensible 400.
const minDialableLength = 8

type contextKey int

const usernameKey contextKey = iota

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse is the error body shape: message first, error code as
// the fallback, matching what clients expect to fall through.
type errorResponse struct {
	Message string `json:"message,omitempty"`
	Code    string `json:"error,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func decodeJSON[T any](w http.ResponseWriter, r *http.Request, maxSize int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return v, false
	}
	return v, true
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type initiateCallRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type endCallRequest struct {
	CallSID string `json:"callSid"`
}

// Register handles POST /register. Registration does not authenticate;
// the client logs in afterwards.
func (s *Sim) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[registerRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	user, err := s.store.CreateUser(req.Username, req.Password, req.Email, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, errUserExists) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	s.logger.Info("user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "registration successful"})
}

// Login handles POST /login, setting the session cookie on success.
func (s *Sim) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[loginRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	user, ok := s.store.Authenticate(req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	sess, _ := s.sessions.Get(r, sessionName)
	sess.Values["username"] = user.Username
	sess.Values["authenticated"] = true
	if err := sess.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    user,
	})
}

// Logout handles POST /logout. It clears the cookie whether or not the
// session was valid.
func (s *Sim) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.sessions.Get(r, sessionName)
	sess.Options = &sessions.Options{MaxAge: -1, HttpOnly: true, Path: "/"}
	sess.Values = map[any]any{}
	_ = sess.Save(r, w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// CheckAuth handles GET /check-auth.
func (s *Sim) CheckAuth(w http.ResponseWriter, r *http.Request) {
	username, ok := s.sessionUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	user, ok := s.store.GetUser(username)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// InitiateCall handles POST /initiateCall.
func (s *Sim) InitiateCall(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	req, ok := decodeJSON[initiateCallRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	number := util.NormalizeNumber(req.PhoneNumber)
	if len([]rune(number)) < minDialableLength {
		writeError(w, http.StatusBadRequest, "invalid phone number")
		return
	}
	sid, err := s.store.StartCall(username, number)
	if err != nil {
		if errors.Is(err, errCallInProgress) {
			writeError(w, http.StatusConflict, "a call is already in progress")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to initiate call")
		return
	}
	s.logger.Info("call started", "username", username, "call_sid", sid)
	writeJSON(w, http.StatusOK, map[string]string{"callSid": sid})
}

// EndCall handles POST /endCall.
func (s *Sim) EndCall(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	req, ok := decodeJSON[endCallRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	if req.CallSID == "" {
		writeError(w, http.StatusBadRequest, "callSid is required")
		return
	}
	rec, err := s.store.EndCall(username, req.CallSID)
	if err != nil {
		writeError(w, http.StatusNotFound, "call not found")
		return
	}
	s.logger.Info("call ended", "username", username, "call_sid", req.CallSID, "duration", rec.Duration)
	writeJSON(w, http.StatusOK, map[string]string{"message": "call ended"})
}

// CallHistory handles GET /calls/history.
func (s *Sim) CallHistory(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	records := s.store.History(username)
	if records == nil {
		records = []CallRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"calls": records})
}

// ListContacts handles GET /contacts.
func (s *Sim) ListContacts(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	contacts := s.store.Contacts(username, r.URL.Query().Get("search"))
	if contacts == nil {
		contacts = []Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// CreateContact handles POST /contacts.
func (s *Sim) CreateContact(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	contact, ok := decodeJSON[Contact](w, r, maxBodySize)
	if !ok {
		return
	}
	if contact.Name == "" || contact.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "name and phoneNumber are required")
		return
	}
	created := s.store.AddContact(username, contact)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateContact handles PUT /contacts/{id}.
func (s *Sim) UpdateContact(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	id := chi.URLParam(r, "id")
	contact, ok := decodeJSON[Contact](w, r, maxBodySize)
	if !ok {
		return
	}
	updated, found := s.store.UpdateContact(username, id, contact)
	if !found {
		writeError(w, http.StatusNotFound, "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteContact handles DELETE /contacts/{id}.
func (s *Sim) DeleteContact(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	if !s.store.DeleteContact(username, chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}

// sessionUser extracts the authenticated username from the cookie.
func (s *Sim) sessionUser(r *http.Request) (string, bool) {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	auth, _ := sess.Values["authenticated"].(bool)
	username, _ := sess.Values["username"].(string)
	if !auth || username == "" {
		return "", false
	}
	return username, true
}

// requireAuth rejects requests without a valid session cookie.
func (s *Sim) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := s.sessionUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func usernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}
