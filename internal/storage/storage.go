// Package storage is a small key/value JSON file store. It backs the
// session-local persistence surface: the selected study topic, the free-text
// user details, the generated teacher personas, and room progress saves.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Well-known keys. Everything else callers may use must start with
// ProgressPrefix.
const (
	KeyStudyTopic   = "study-topic"
	KeyUserDetails  = "user-details"
	KeyGameTeachers = "game-teachers"
	ProgressPrefix  = "room-progress"
)

var dataDir = "data"
var mu sync.Mutex
var cleanKeyRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SetDir changes the backing directory. Called once at startup (and by tests).
func SetDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	dataDir = dir
}

// SaveInfo is metadata about one stored entry.
type SaveInfo struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidKey reports whether a key is one we are willing to read or write.
func ValidKey(key string) bool {
	switch key {
	case KeyStudyTopic, KeyUserDetails, KeyGameTeachers:
		return true
	}
	return key == ProgressPrefix || strings.HasPrefix(key, ProgressPrefix+"-")
}

func ensureDataDir() error {
	return os.MkdirAll(dataDir, 0755)
}

func cleanKey(key string) string {
	return cleanKeyRe.ReplaceAllString(key, "")
}

// Get retrieves a value by key, returns nil if not found.
func Get(key string) (json.RawMessage, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := ensureDataDir(); err != nil {
		return nil, err
	}

	path := filepath.Join(dataDir, cleanKey(key)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Set stores a value by key.
func Set(key string, value json.RawMessage) error {
	mu.Lock()
	defer mu.Unlock()

	if err := ensureDataDir(); err != nil {
		return err
	}

	path := filepath.Join(dataDir, cleanKey(key)+".json")

	// Pretty-print for readability
	var parsed interface{}
	if err := json.Unmarshal(value, &parsed); err == nil {
		if pretty, err := json.MarshalIndent(parsed, "", "  "); err == nil {
			value = pretty
		}
	}

	return os.WriteFile(path, value, 0644)
}

// Delete removes a value by key.
func Delete(key string) error {
	mu.Lock()
	defer mu.Unlock()

	path := filepath.Join(dataDir, cleanKey(key)+".json")
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns all stored entries, newest first.
func List() ([]SaveInfo, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := ensureDataDir(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		saves = append(saves, SaveInfo{
			ID:        strings.TrimSuffix(entry.Name(), ".json"),
			UpdatedAt: info.ModTime(),
		})
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].UpdatedAt.After(saves[j].UpdatedAt)
	})

	return saves, nil
}

// SetJSON stores a Go value as JSON by key.
func SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return Set(key, json.RawMessage(data))
}

// GetJSON retrieves a JSON value and unmarshals into target. A missing key
// leaves the target untouched.
func GetJSON(key string, target interface{}) error {
	data, err := Get(key)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	return json.Unmarshal(data, target)
}

// SetString stores a scalar string value.
func SetString(key, value string) error {
	return SetJSON(key, value)
}

// GetString retrieves a scalar string value, empty when unset.
func GetString(key string) (string, error) {
	var s string
	if err := GetJSON(key, &s); err != nil {
		return "", err
	}
	return s, nil
}
