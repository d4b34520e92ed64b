package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func jsonHandler(status int, body any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func TestLoginSendsCredentialsAndStoresCookie(t *testing.T) {
	var sawCookie bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada", req.Username)
		http.SetCookie(w, &http.Cookie{Name: "dialtone_session", Value: "abc"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /check-auth", func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("dialtone_session")
		sawCookie = err == nil
		_ = json.NewEncoder(w).Encode(CheckAuthResult{})
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.Login(context.Background(), LoginRequest{Username: "ada", Password: "hunter22"}))
	_, err := c.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.True(t, sawCookie, "session cookie must ride along on later requests")
}

func TestUnauthorizedClassification(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusUnauthorized, map[string]string{"message": "not authenticated"}))

	_, err := c.CheckAuth(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Equal(t, "not authenticated", UserMessage(err, "fallback"))
}

func TestServerErrorMessageFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		body any
		want string
	}{
		{"message preferred", map[string]string{"message": "boom", "error": "code"}, "boom"},
		{"code when no message", map[string]string{"error": "storage unavailable"}, "storage unavailable"},
		{"generic when body empty", map[string]string{}, "failed to initiate call"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, jsonHandler(http.StatusInternalServerError, tc.body))
			_, err := c.InitiateCall(context.Background(), "+15550001234")
			require.Error(t, err)
			assert.Equal(t, KindServer, KindOf(err))
			assert.Equal(t, tc.want, UserMessage(err, "unused"))
		})
	}
}

func TestNonJSONErrorBodyFallsBackToGenericMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))

	err := c.EndCall(context.Background(), "CA123")
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "failed to end call", UserMessage(err, "unused"))
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens here any more
	c, err := New(srv.URL)
	require.NoError(t, err)

	err = c.Login(context.Background(), LoginRequest{Username: "ada", Password: "x"})
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestCheckAuthTimesOut(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithAuthCheckTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = c.CheckAuth(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err), "a timeout is a network failure, not an auth verdict")
	assert.Equal(t, "request timed out", UserMessage(err, "unused"))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestInitiateCallReturnsSID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PhoneNumber string `json:"phoneNumber"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+15550001234", req.PhoneNumber)
		_ = json.NewEncoder(w).Encode(map[string]string{"callSid": "CA42"})
	}))

	sid, err := c.InitiateCall(context.Background(), "+15550001234")
	require.NoError(t, err)
	assert.Equal(t, "CA42", sid)
}

func TestInitiateCallRejectsMissingSID(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, map[string]string{"message": "ok"}))

	_, err := c.InitiateCall(context.Background(), "+15550001234")
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "invalid response from server", UserMessage(err, "unused"))
}

func TestMalformedSuccessBodyIsServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := c.CallHistory(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "invalid response from server", UserMessage(err, "unused"))
}

func TestCallHistoryNullCallsIsEmpty(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, map[string]any{"calls": nil}))

	calls, err := c.CallHistory(context.Background())
	require.NoError(t, err)
	require.NotNil(t, calls)
	assert.Empty(t, calls)
}

func TestCallHistoryDecodesRecords(t *testing.T) {
	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, jsonHandler(http.StatusOK, map[string]any{
		"calls": []CallRecord{{ID: "CA1", PhoneNumber: "+15550001234", Status: "completed", StartTime: started, Duration: 42}},
	}))

	calls, err := c.CallHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "CA1", calls[0].ID)
	assert.Equal(t, 42, calls[0].Duration)
	assert.True(t, calls[0].StartTime.Equal(started))
}

func TestListContactsPassesSearchTerm(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ada l", r.URL.Query().Get("search"))
		_ = json.NewEncoder(w).Encode([]Contact{{ID: "1", Name: "Ada Lovelace"}})
	}))

	contacts, err := c.ListContacts(context.Background(), "ada l")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ada Lovelace", contacts[0].Name)
}

func TestCreateContactReturnsAssignedID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var contact Contact
		require.NoError(t, json.NewDecoder(r.Body).Decode(&contact))
		contact.ID = "assigned"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(contact)
	}))

	created, err := c.CreateContact(context.Background(), Contact{Name: "Ada", PhoneNumber: "+15550001234"})
	require.NoError(t, err)
	assert.Equal(t, "assigned", created.ID)
	assert.Equal(t, "Ada", created.Name)
}

func TestDeleteContactEscapesID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.DeleteContact(context.Background(), "a/b"))
	assert.Equal(t, "/contacts/a%2Fb", gotPath)
}

func TestKindStrings(t *testing.T) {
	if KindValidation.String() != "validation" || KindNetwork.String() != "network" {
		t.Fatal("unexpected kind strings")
	}
	if KindUnauthorized.String() != "unauthorized" || KindServer.String() != "server" {
		t.Fatal("unexpected kind strings")
	}
	if Kind(99).String() != "unknown" {
		t.Fatal("unexpected kind string for out of range value")
	}
}
