package client

import "time"

// UserProfile is the account data the backend attaches to an
// authenticated session.
type UserProfile struct {
	ID          string `json:"id,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// CallRecord is one row of the backend call history. Read-only on the
// client; the reported duration is the backend's, not the local clock's.
type CallRecord struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Status      string    `json:"status"`
	StartTime   time.Time `json:"startTime"`
	Duration    int       `json:"duration"` // seconds
}

// Contact is an entry in the user's address book.
type Contact struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// LoginRequest carries credentials for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields for POST /register. Registration
// does not itself authenticate.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// CheckAuthResult is the successful outcome of GET /check-auth.
type CheckAuthResult struct {
	User *UserProfile `json:"user,omitempty"`
}

type initiateCallRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type initiateCallResponse struct {
	CallSID string `json:"callSid"`
}

type endCallRequest struct {
	CallSID string `json:"callSid"`
}

type historyResponse struct {
	Calls []CallRecord `json:"calls"`
}
