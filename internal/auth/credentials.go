package auth

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type credential struct {
	hash []byte
	role Role
}

// Credentials is the static login table, loaded once at startup.
// Lookups are read-only after construction, so no locking is needed.
type Credentials struct {
	byUsername map[string]credential
	// dummyHash is compared against when the username is unknown, so a
	// miss costs the same bcrypt work as a wrong password.
	dummyHash []byte
}

type credentialsFile struct {
	Users []struct {
		Username     string `yaml:"username"`
		Password     string `yaml:"password"`
		PasswordHash string `yaml:"password_hash"`
		Role         string `yaml:"role"`
	} `yaml:"users"`
}

// LoadCredentials reads the credential table from a YAML file. Entries
// carry either a plaintext password, hashed here at load time, or a
// pre-computed bcrypt password_hash.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var cf credentialsFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	creds, err := newCredentials()
	if err != nil {
		return nil, err
	}
	for _, u := range cf.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("credential entry with empty username")
		}
		if _, exists := creds.byUsername[u.Username]; exists {
			return nil, fmt.Errorf("duplicate credential entry for %q", u.Username)
		}
		role, err := ParseRole(u.Role)
		if err != nil {
			return nil, fmt.Errorf("credential entry %q: %w", u.Username, err)
		}
		hash := []byte(u.PasswordHash)
		if len(hash) == 0 {
			if u.Password == "" {
				return nil, fmt.Errorf("credential entry %q has no password", u.Username)
			}
			hash, err = bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %q: %w", u.Username, err)
			}
		}
		creds.byUsername[u.Username] = credential{hash: hash, role: role}
	}
	return creds, nil
}

// Entry is one row of the credential table.
type Entry struct {
	Username string
	Password string
	Role     Role
}

// NewCredentials builds a table from plaintext entries. Used by tests
// and deployments that inject credentials programmatically.
func NewCredentials(entries []Entry) (*Credentials, error) {
	creds, err := newCredentials()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, exists := creds.byUsername[e.Username]; exists {
			return nil, fmt.Errorf("duplicate credential entry for %q", e.Username)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(e.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		creds.byUsername[e.Username] = credential{hash: hash, role: e.Role}
	}
	return creds, nil
}

func newCredentials() (*Credentials, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("staffcore-no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Credentials{
		byUsername: make(map[string]credential),
		dummyHash:  dummy,
	}, nil
}

// Verify checks a submitted username/password pair and returns the
// mapped role. The bcrypt comparison runs for unknown usernames too.
func (c *Credentials) Verify(username, password string) (Role, bool) {
	cred, found := c.byUsername[username]
	hash := cred.hash
	if !found {
		hash = c.dummyHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", false
	}
	if !found {
		return "", false
	}
	return cred.role, true
}
