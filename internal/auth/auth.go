// Package auth knows which users may log in and who is logged in now.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// ErrNoUsers is returned when neither the users file nor the OS yields a user.
var ErrNoUsers = errors.New("no users available")

// User is one login candidate.
type User struct {
	Name    string `toml:"name"`
	Display string `toml:"display,omitempty"`
	Shell   string `toml:"shell,omitempty"`
}

// Label is how the login picker shows the user.
func (u User) Label() string {
	if u.Display != "" {
		return u.Display
	}
	return u.Name
}

// Directory lists the users allowed to log in.
type Directory interface {
	Users() ([]User, error)
	Lookup(name string) (User, bool)
}

type usersFile struct {
	Users []User `toml:"users"`
}

// FileDirectory reads users from a TOML file with [[users]] tables. A missing
// file falls back to the account running the program.
type FileDirectory struct {
	path    string
	current func() (*user.User, error)
}

// NewFileDirectory returns a directory backed by path. An empty path goes
// straight to the OS user.
func NewFileDirectory(path string) *FileDirectory {
	return &FileDirectory{path: path, current: user.Current}
}

// Users returns the configured users, de-duplicated and sorted by name.
func (d *FileDirectory) Users() ([]User, error) {
	users, err := d.read()
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return users, nil
	}
	fallback, err := d.osUser()
	if err != nil {
		return nil, err
	}
	return []User{fallback}, nil
}

// Lookup finds a user by name.
func (d *FileDirectory) Lookup(name string) (User, bool) {
	users, err := d.Users()
	if err != nil {
		return User{}, false
	}
	for _, u := range users {
		if u.Name == name {
			return u, true
		}
	}
	return User{}, false
}

func (d *FileDirectory) read() ([]User, error) {
	if d.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var file usersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Users))
	out := make([]User, 0, len(file.Users))
	for _, u := range file.Users {
		u.Name = strings.TrimSpace(u.Name)
		if u.Name == "" {
			continue
		}
		if _, dup := seen[u.Name]; dup {
			continue
		}
		seen[u.Name] = struct{}{}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (d *FileDirectory) osUser() (User, error) {
	if u, err := d.current(); err == nil && u.Username != "" {
		return User{Name: u.Username, Display: u.Name}, nil
	}
	if name := os.Getenv("USER"); name != "" {
		return User{Name: name}, nil
	}
	return User{}, ErrNoUsers
}

// Identity tracks the user whose session is live.
type Identity struct {
	mu      sync.RWMutex
	current string
}

// SetCurrentUser records the live user; empty means logged out.
func (i *Identity) SetCurrentUser(name string) {
	i.mu.Lock()
	i.current = name
	i.mu.Unlock()
}

// Current returns the live user.
func (i *Identity) Current() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.current
}

// LoggedIn reports whether any user is live.
func (i *Identity) LoggedIn() bool {
	return i.Current() != ""
}
