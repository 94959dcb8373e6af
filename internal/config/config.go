// Package config loads and persists the haxor-news configuration file
// (~/.haxornewsconfig). Besides user settings the file carries two bits of
// state: the ids of the last listed posts, which let `hn view N` address a
// post by its list position, and the cache of comment ids already shown,
// which backs `hn view N -cu`.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/haxor-news/haxor/internal/grammar"
	"github.com/haxor-news/haxor/internal/herrors"
)

const (
	// FileName is the config file name inside the home directory.
	FileName = ".haxornewsconfig"
	// HistoryFileName is the shell history file name inside the home directory.
	HistoryFileName = ".haxornewshistory"
	// EnvPrefix prefixes environment overrides, e.g. HAXOR_FUZZY=true.
	EnvPrefix = "HAXOR_"
	// DefaultAPIURL is the Hacker News Firebase API root.
	DefaultAPIURL = "https://hacker-news.firebaseio.com/v0"
	// MaxItemCacheSize bounds the seen-comment cache; oldest ids go first.
	MaxItemCacheSize = 20000
)

// Config holds user settings and persisted state.
type Config struct {
	HiringID    int    `koanf:"hiring_id" yaml:"hiring_id"`
	FreelanceID int    `koanf:"freelance_id" yaml:"freelance_id"`
	Fuzzy       bool   `koanf:"fuzzy" yaml:"fuzzy"`
	Paginate    bool   `koanf:"paginate" yaml:"paginate"`
	Pager       string `koanf:"pager" yaml:"pager"`
	Prompt      string `koanf:"prompt" yaml:"prompt"`
	HistoryFile string `koanf:"history_file" yaml:"history_file"`
	LogLevel    string `koanf:"log_level" yaml:"log_level"`
	ShowTip     bool   `koanf:"show_tip" yaml:"show_tip"`
	APIURL      string `koanf:"api_url" yaml:"api_url"`
	ItemIDs     []int  `koanf:"item_ids" yaml:"item_ids"`
	ItemCache   []int  `koanf:"item_cache" yaml:"item_cache"`

	path string
	seen map[int]struct{}
	file *Config // settings as stored, before environment overrides
}

// Defaults returns a Config populated with built-in defaults and bound to
// path.
func Defaults(path string) *Config {
	home, _ := os.UserHomeDir()
	history := ""
	if home != "" {
		history = filepath.Join(home, HistoryFileName)
	}
	return &Config{
		HiringID:    grammar.DefaultHiringPostID,
		FreelanceID: grammar.DefaultFreelancePostID,
		Paginate:    true,
		Pager:       DefaultPager(),
		Prompt:      "haxor> ",
		HistoryFile: history,
		LogLevel:    "warn",
		ShowTip:     true,
		APIURL:      DefaultAPIURL,
		path:        path,
	}
}

// DefaultPager returns the pager command line for the current platform.
func DefaultPager() string {
	if runtime.GOOS == "windows" {
		return "more"
	}
	return "less -r"
}

// EnvKeys lists the environment variables that override user settings.
func EnvKeys() []string {
	keys := []string{"api_url", "freelance_id", "fuzzy", "hiring_id", "history_file",
		"log_level", "pager", "paginate", "prompt", "show_tip"}
	for i, k := range keys {
		keys[i] = EnvPrefix + strings.ToUpper(k)
	}
	return keys
}

// DefaultPath returns ~/.haxornewsconfig.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", herrors.NewConfigError("", "cannot locate home directory", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the config at path (DefaultPath when empty). Sources are applied
// in ascending priority: defaults, the YAML file, HAXOR_* environment
// variables. A missing file is not an error.
//
// Environment overrides apply to this process only: Save keeps the settings
// the file had.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, k, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	stored := *cfg

	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
		return nil, herrors.NewConfigError(path, "failed to load environment", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, herrors.NewConfigError(path, "failed to decode config", err)
	}
	cfg.file = &stored
	cfg.indexSeen()
	return cfg, nil
}

// Update applies fn to the config stored at path and saves it. Environment
// overrides are not read, so they never end up in the file.
func Update(path string, fn func(*Config)) error {
	cfg, _, err := loadFile(path)
	if err != nil {
		return err
	}
	fn(cfg)
	return cfg.Save()
}

func loadFile(path string) (*Config, *koanf.Koanf, error) {
	cfg := Defaults(path)
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, nil, herrors.NewConfigError(path, "failed to load config", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, herrors.NewConfigError(path, "failed to stat config", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, nil, herrors.NewConfigError(path, "failed to decode config", err)
	}
	cfg.indexSeen()
	return cfg, k, nil
}

// Path returns the file the config is bound to.
func (c *Config) Path() string { return c.path }

// Save writes the config back to its file.
func (c *Config) Save() error {
	if c.path == "" {
		return herrors.NewConfigError("", "config has no path", nil)
	}
	out := c
	if c.file != nil {
		settings := *c.file
		settings.ItemIDs, settings.ItemCache = c.ItemIDs, c.ItemCache
		out = &settings
	}
	data, err := yamlv3.Marshal(out)
	if err != nil {
		return herrors.NewConfigError(c.path, "failed to encode config", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return herrors.NewConfigError(c.path, "failed to create config directory", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return herrors.NewConfigError(c.path, "failed to save config", err)
	}
	return nil
}

// SetItemIDs remembers the ids of the posts most recently listed.
func (c *Config) SetItemIDs(ids []int) {
	c.ItemIDs = append([]int(nil), ids...)
}

// ItemID returns the id listed at 1-based position index.
func (c *Config) ItemID(index int) (int, bool) {
	if index < 1 || index > len(c.ItemIDs) {
		return 0, false
	}
	return c.ItemIDs[index-1], true
}

// Seen reports whether the comment id has been shown before.
func (c *Config) Seen(id int) bool {
	if c.seen == nil {
		c.indexSeen()
	}
	_, ok := c.seen[id]
	return ok
}

// MarkSeen records id as shown and reports whether it was new. The cache
// keeps at most MaxItemCacheSize ids.
func (c *Config) MarkSeen(id int) bool {
	if c.Seen(id) {
		return false
	}
	c.ItemCache = append(c.ItemCache, id)
	c.seen[id] = struct{}{}
	if over := len(c.ItemCache) - MaxItemCacheSize; over > 0 {
		for _, old := range c.ItemCache[:over] {
			delete(c.seen, old)
		}
		c.ItemCache = append([]int(nil), c.ItemCache[over:]...)
	}
	return true
}

// ClearItemCache forgets every seen comment id.
func (c *Config) ClearItemCache() {
	c.ItemCache = nil
	c.seen = make(map[int]struct{})
}

func (c *Config) indexSeen() {
	c.seen = make(map[int]struct{}, len(c.ItemCache))
	for _, id := range c.ItemCache {
		c.seen[id] = struct{}{}
	}
}

// String summarises the settings, leaving out the persisted state.
func (c *Config) String() string {
	return fmt.Sprintf("hiring_id=%d freelance_id=%d fuzzy=%t paginate=%t pager=%q log_level=%s",
		c.HiringID, c.FreelanceID, c.Fuzzy, c.Paginate, c.Pager, c.LogLevel)
}
