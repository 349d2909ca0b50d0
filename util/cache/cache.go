package cache

import (
	"encoding/json"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultTTL bounds how long a resolved name is trusted.
const DefaultTTL = 24 * time.Hour

var (
	defaultCache *FileCache
	defaultOnce  sync.Once
)

func defaultPath() string {
	usr, err := user.Current()
	if err != nil {
		return filepath.Join(os.TempDir(), "poap-cache.json")
	}
	return filepath.Join(usr.HomeDir, ".poap", "cache.json")
}

// Default returns the process wide cache stored at ~/.poap/cache.json.
func Default() *FileCache {
	defaultOnce.Do(func() {
		defaultCache = NewFileCache(defaultPath(), DefaultTTL)
	})
	return defaultCache
}

type entry struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// FileCache is a small string cache persisted as JSON. Keys are case
// insensitive. Read errors on the backing file leave the cache empty.
type FileCache struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
	loaded bool
	Data   map[string]entry `json:"Data"`
}

func NewFileCache(path string, ttl time.Duration) *FileCache {
	return &FileCache{path: path, ttl: ttl, now: time.Now, Data: map[string]entry{}}
}

func (c *FileCache) load() {
	if c.loaded {
		return
	}
	c.loaded = true
	content, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	stored := map[string]entry{}
	if err := json.Unmarshal(content, &struct {
		Data *map[string]entry `json:"Data"`
	}{&stored}); err != nil {
		return
	}
	c.Data = stored
}

func (c *FileCache) persist() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, jsonData, 0o644)
}

func (c *FileCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()

	e, found := c.Data[strings.ToLower(key)]
	if !found || (!e.Expires.IsZero() && c.now().After(e.Expires)) {
		return "", false
	}
	return e.Value, true
}

func (c *FileCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()

	e := entry{Value: value}
	if c.ttl > 0 {
		e.Expires = c.now().Add(c.ttl)
	}
	c.Data[strings.ToLower(key)] = e
	return c.persist()
}

func GetCache(key string) (string, bool) {
	return Default().Get(key)
}

func SetCache(key, value string) error {
	return Default().Set(key, value)
}
