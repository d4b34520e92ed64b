package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
)

// cookieFile persists the backend session cookie between CLI
// invocations, the way a browser's jar would across page loads. Only
// name/value pairs survive; that is all the backend needs to recognize
// the session.
type cookieFile struct {
	path string
	base *url.URL
	jar  http.CookieJar
}

func newCookieFile(path, baseURL string) (*cookieFile, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing API URL: %w", err)
	}
	return &cookieFile{path: path, base: base}, nil
}

// restore loads saved cookies into the jar. A missing or corrupt file
// just means no session.
func (c *cookieFile) restore(jar http.CookieJar) {
	c.jar = jar
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var cookies []*http.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return
	}
	jar.SetCookies(c.base, cookies)
}

// persist writes the jar's cookies for the backend back to disk. An
// empty jar removes the file.
func (c *cookieFile) persist() error {
	if c.jar == nil {
		return nil
	}
	cookies := c.jar.Cookies(c.base)
	if len(cookies) == 0 {
		err := os.Remove(c.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	data, err := json.Marshal(cookies)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}
