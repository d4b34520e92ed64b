package cmd

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strings"

	"github.com/dialforge/dialtone/client"
	"github.com/dialforge/dialtone/internal/config"
	"github.com/dialforge/dialtone/session"
	bboltstorage "github.com/dialforge/dialtone/storage/bbolt"
)

// app bundles the constructed client stack for one CLI invocation.
type app struct {
	cfg     config.Config
	client  *client.Client
	store   *bboltstorage.Store
	session *session.Manager
	cookies *cookieFile
}

// newApp builds the stack: config from env, a cookie-jar HTTP client
// with the persisted session cookie restored, the on-disk state store,
// and the session manager on top.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	cookies, err := newCookieFile(filepath.Join(filepath.Dir(cfg.StatePath), "cookies.json"), cfg.APIURL)
	if err != nil {
		return nil, err
	}
	cookies.restore(jar)

	cl, err := client.New(cfg.APIURL,
		client.WithHTTPClient(&http.Client{Jar: jar}),
		client.WithAuthCheckTimeout(cfg.AuthCheckTimeout),
	)
	if err != nil {
		return nil, err
	}

	store, err := bboltstorage.NewStoreFromFile(cfg.StatePath, nil)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	mgr := session.New(cl, store,
		session.WithNotifier(notifier{}),
		session.WithRevalidateInterval(cfg.RecheckInterval),
	)

	return &app{cfg: cfg, client: cl, store: store, session: mgr, cookies: cookies}, nil
}

// Close persists the cookie jar and releases the state store.
func (a *app) Close() {
	a.session.Close()
	if err := a.cookies.persist(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: saving session cookie failed:", err)
	}
	if err := a.store.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: closing state store failed:", err)
	}
}

// notifier prints user-facing messages, errors to stderr.
type notifier struct{}

func (notifier) Success(msg string) { fmt.Println(msg) }
func (notifier) Info(msg string)    { fmt.Println(msg) }
func (notifier) Error(msg string)   { fmt.Fprintln(os.Stderr, msg) }

// prompt reads one line from stdin.
func prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
