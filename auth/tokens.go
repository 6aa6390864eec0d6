// Package auth provides bearer token sources for the API client.
package auth

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"absolute-cinema-cli/logger"
	"absolute-cinema-cli/store"
)

// EnvTokenKey is the environment variable consulted by Env.
const EnvTokenKey = "CINEMA_AUTH_TOKEN"

// Static always returns the same token. An empty value means no token.
type Static string

func (s Static) Token() (string, bool) {
	token := strings.TrimSpace(string(s))
	return token, token != ""
}

// Stored reads the token persisted by login.
type Stored struct {
	log *logger.Logger
}

func NewStored(log *logger.Logger) Stored {
	if log == nil {
		log = logger.Discard()
	}
	return Stored{log: log}
}

func (s Stored) Token() (string, bool) {
	token, err := store.LoadAuthToken()
	if err != nil {
		if s.log != nil {
			s.log.Warn("read stored token", slog.String("error", err.Error()))
		}
		return "", false
	}
	return token, token != ""
}

// Env reads the token from an environment variable.
type Env struct {
	Key    string
	lookup func(string) (string, bool)
}

func NewEnv() Env {
	return Env{Key: EnvTokenKey, lookup: os.LookupEnv}
}

func (e Env) Token() (string, bool) {
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	key := e.Key
	if key == "" {
		key = EnvTokenKey
	}
	value, ok := lookup(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

// Source names where a Chain found its token.
type Source int

const (
	SourceNone Source = iota
	SourceStored
	SourceEnv
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored login"
	case SourceEnv:
		return EnvTokenKey
	default:
		return "none"
	}
}

// Chain prefers the stored token and falls back to the environment. A token
// found only in the environment is written to the store once, so later runs
// pick it up without the variable. Once stored, it wins over the variable
// until logout.
type Chain struct {
	stored interface{ Token() (string, bool) }
	env    interface{ Token() (string, bool) }
	save   func(string) error
	log    *logger.Logger

	mu        sync.Mutex
	persisted bool
}

func NewChain(log *logger.Logger) *Chain {
	if log == nil {
		log = logger.Discard()
	}
	log = log.WithComponent("auth")
	return &Chain{
		stored: NewStored(log),
		env:    NewEnv(),
		save:   store.SaveAuthToken,
		log:    log,
	}
}

func (c *Chain) Token() (string, bool) {
	token, src := c.Lookup()
	return token, src != SourceNone
}

// Lookup returns the token and where it came from. Calls are serialized so
// concurrent requests never read the token file while it is being written.
func (c *Chain) Lookup() (string, Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token, ok := c.stored.Token(); ok {
		return token, SourceStored
	}
	token, ok := c.env.Token()
	if !ok {
		return "", SourceNone
	}
	if c.save != nil && !c.persisted {
		c.persisted = true
		if err := c.save(token); err != nil {
			c.log.Warn("persist token from environment", slog.String("error", err.Error()))
		}
	}
	return token, SourceEnv
}
