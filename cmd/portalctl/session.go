package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yigit/consultdesk/internal/pkg/portalclient"
)

var errNotLoggedIn = errors.New("not logged in, run `portalctl login` first")

func tokenPath(c *cli.Context) (string, error) {
	if p := c.String("token-file"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "consultdesk", "token"), nil
}

func loadToken(c *cli.Context) (string, error) {
	path, err := tokenPath(c)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func saveToken(c *cli.Context, token string) error {
	path, err := tokenPath(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func clearToken(c *cli.Context) error {
	path, err := tokenPath(c)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func newClient(c *cli.Context) (*portalclient.Client, error) {
	token, err := loadToken(c)
	if err != nil {
		return nil, err
	}
	return portalclient.New(portalclient.Config{
		BaseURL: c.String("api"),
		Token:   token,
		Timeout: c.Duration("timeout"),
	})
}

// authedClient fails early when no token is stored
func authedClient(c *cli.Context) (*portalclient.Client, error) {
	client, err := newClient(c)
	if err != nil {
		return nil, err
	}
	if client.Token() == "" {
		return nil, errNotLoggedIn
	}
	return client, nil
}
