package gofile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

const (
	envToken   = "GOFILE_TOKEN"
	envBaseURL = "GOFILE_API_URL"

	tokenFileName = "token"
)

// NewFromEnv builds an Authorized client from the environment: the token is
// read from GOFILE_TOKEN or, failing that, from ~/.config/gofile/token;
// GOFILE_API_URL overrides the API endpoint. Extra options are applied after
// the environment-derived ones.
func NewFromEnv(opts ...Option) (*Authorized, error) {
	token, err := tokenFromEnv()
	if err != nil {
		return nil, err
	}

	envOpts := []Option{}
	if baseURL := strings.TrimSpace(os.Getenv(envBaseURL)); baseURL != "" {
		envOpts = append(envOpts, WithBaseURL(baseURL))
	}

	client, err := New(append(envOpts, opts...)...)
	if err != nil {
		return nil, err
	}
	return client.Authorize(token), nil
}

func tokenFromEnv() (string, error) {
	if token := strings.TrimSpace(os.Getenv(envToken)); token != "" {
		return token, nil
	}

	path, err := tokenFilePath()
	if err == nil {
		if data, readErr := os.ReadFile(path); readErr == nil {
			if token := strings.TrimSpace(string(data)); token != "" {
				return token, nil
			}
		}
	}

	return "", fmt.Errorf("%w: set %s or write it to %s", ErrMissingToken, envToken, tokenFileDescription())
}

func tokenFilePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gofile", tokenFileName), nil
}

func tokenFileDescription() string {
	if path, err := tokenFilePath(); err == nil {
		return path
	}
	return "~/.config/gofile/" + tokenFileName
}
