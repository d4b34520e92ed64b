package sim_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialforge/dialtone/client"
	"github.com/dialforge/dialtone/sim"
)

// newEnv starts a simulator and returns a client wired to it.
func newEnv(t *testing.T) (*sim.Sim, *client.Client) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := sim.New(sim.WithLogger(logger))
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL, client.WithLogger(logger))
	require.NoError(t, err)
	return s, c
}

func register(t *testing.T, c *client.Client, username string) {
	t.Helper()
	err := c.Register(context.Background(), client.RegisterRequest{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "correct horse",
		PhoneNumber: "+15550001000",
	})
	require.NoError(t, err)
}

func login(t *testing.T, c *client.Client, username string) {
	t.Helper()
	err := c.Login(context.Background(), client.LoginRequest{Username: username, Password: "correct horse"})
	require.NoError(t, err)
}

func TestFullCallFlow(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")
	login(t, c, "ada")

	res, err := c.CheckAuth(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "ada", res.User.Username)

	sid, err := c.InitiateCall(context.Background(), "+15550001234")
	require.NoError(t, err)
	assert.NotEmpty(t, sid)

	require.NoError(t, c.EndCall(context.Background(), sid))

	calls, err := c.CallHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, sid, calls[0].ID)
	assert.Equal(t, "+15550001234", calls[0].PhoneNumber)
	assert.Equal(t, "completed", calls[0].Status)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	_, c := newEnv(t)

	_, err := c.CheckAuth(context.Background())
	assert.True(t, client.IsUnauthorized(err))

	_, err = c.InitiateCall(context.Background(), "+15550001234")
	assert.True(t, client.IsUnauthorized(err))

	_, err = c.CallHistory(context.Background())
	assert.True(t, client.IsUnauthorized(err))

	_, err = c.ListContacts(context.Background(), "")
	assert.True(t, client.IsUnauthorized(err))
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")

	err := c.Login(context.Background(), client.LoginRequest{Username: "ada", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, "invalid credentials", client.UserMessage(err, "unused"))
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")

	err := c.Register(context.Background(), client.RegisterRequest{Username: "ada", Password: "x y z w"})
	require.Error(t, err)
	var ce *client.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 409, ce.StatusCode)
	assert.Equal(t, "user already exists", ce.Message)
}

func TestSecondCallConflicts(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")
	login(t, c, "ada")

	_, err := c.InitiateCall(context.Background(), "+15550001234")
	require.NoError(t, err)

	_, err = c.InitiateCall(context.Background(), "+15550005678")
	require.Error(t, err)
	var ce *client.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 409, ce.StatusCode)
}

func TestInitiateCallRejectsShortNumber(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")
	login(t, c, "ada")

	_, err := c.InitiateCall(context.Background(), "+1234")
	require.Error(t, err)
	var ce *client.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 400, ce.StatusCode)
	assert.Equal(t, "invalid phone number", ce.Message)
}

func TestEndUnknownCallIsNotFound(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")
	login(t, c, "ada")

	err := c.EndCall(context.Background(), "CAnosuchcall")
	require.Error(t, err)
	var ce *client.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.StatusCode)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")
	login(t, c, "ada")

	require.NoError(t, c.Logout(context.Background()))

	_, err := c.CheckAuth(context.Background())
	assert.True(t, client.IsUnauthorized(err))
}

func TestContactsCRUD(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")
	login(t, c, "ada")

	created, err := c.CreateContact(context.Background(), client.Contact{
		Name:        "Grace Hopper",
		PhoneNumber: "+15550002222",
		Email:       "grace@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = c.CreateContact(context.Background(), client.Contact{Name: "Alan Turing", PhoneNumber: "+15550003333"})
	require.NoError(t, err)

	all, err := c.ListContacts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Search matches name or number, case-insensitively.
	hits, err := c.ListContacts(context.Background(), "grace")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, created.ID, hits[0].ID)

	require.NoError(t, c.UpdateContact(context.Background(), created.ID, client.Contact{
		Name:        "Grace B. Hopper",
		PhoneNumber: "+15550002222",
	}))
	hits, err = c.ListContacts(context.Background(), "hopper")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Grace B. Hopper", hits[0].Name)

	require.NoError(t, c.DeleteContact(context.Background(), created.ID))
	all, err = c.ListContacts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = c.DeleteContact(context.Background(), created.ID)
	require.Error(t, err)
	var ce *client.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.StatusCode)
}

func TestContactsAreScopedPerUser(t *testing.T) {
	srvSim, c1 := newEnv(t)
	register(t, c1, "ada")
	login(t, c1, "ada")
	_, err := c1.CreateContact(context.Background(), client.Contact{Name: "Private", PhoneNumber: "+15550004444"})
	require.NoError(t, err)

	// Second client, second account, same simulator.
	srv := httptest.NewServer(srvSim.Router())
	t.Cleanup(srv.Close)
	c2, err := client.New(srv.URL, client.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	require.NoError(t, err)
	register(t, c2, "grace")
	login(t, c2, "grace")

	contacts, err := c2.ListContacts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestHistoryIsNewestFirst(t *testing.T) {
	_, c := newEnv(t)
	register(t, c, "ada")
	login(t, c, "ada")

	first, err := c.InitiateCall(context.Background(), "+15550001111")
	require.NoError(t, err)
	require.NoError(t, c.EndCall(context.Background(), first))

	second, err := c.InitiateCall(context.Background(), "+15550002222")
	require.NoError(t, err)
	require.NoError(t, c.EndCall(context.Background(), second))

	calls, err := c.CallHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, second, calls[0].ID)
	assert.Equal(t, first, calls[1].ID)
}

func TestSeedPopulatesStore(t *testing.T) {
	s := sim.New(sim.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	err := s.Seed(sim.SeedFile{
		Users: []sim.SeedUser{{
			Username: "demo",
			Password: "demo pass",
			Contacts: []sim.SeedContact{{Name: "Ops Desk", PhoneNumber: "+15550009999"}},
		}},
	})
	require.NoError(t, err)

	_, ok := s.Store().GetUser("demo")
	assert.True(t, ok)
	contacts := s.Store().Contacts("demo", "")
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ops Desk", contacts[0].Name)
}
