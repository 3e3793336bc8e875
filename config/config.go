// Package config handles sandbox.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chazu/shadowvm/kernel"
	"github.com/chazu/shadowvm/naming"
	"github.com/chazu/shadowvm/rt"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "sandbox.toml"

// DefaultEnergy is the energy limit used when none is configured.
const DefaultEnergy int64 = 1_000_000

// Config represents a sandbox.toml configuration.
type Config struct {
	Naming Naming `toml:"naming"`
	Limits Limits `toml:"limits"`
	Kernel Kernel `toml:"kernel"`

	// Dir is the directory containing the sandbox.toml file (set at load time).
	Dir string `toml:"-"`
}

// Naming configures the class renamer.
type Naming struct {
	Style             string   `toml:"style"`
	Debug             bool     `toml:"debug"`
	Prohibit          []string `toml:"prohibit"`
	RuntimeExceptions []string `toml:"runtime-exceptions"`
	UserClasses       []string `toml:"user-classes"`
	// UserClassForm is "pre" (default) or "post".
	UserClassForm string `toml:"user-class-form"`
}

// Limits configures energy and stack limits.
type Limits struct {
	Energy   int64    `toml:"energy"`
	MaxDepth int32    `toml:"max-depth"`
	MaxSize  int32    `toml:"max-size"`
	Policy   []string `toml:"policy"`
}

// Kernel configures the account store.
type Kernel struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses the sandbox.toml file in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses a configuration file at an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes configuration text and fills defaults.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a sandbox.toml file, then loads
// it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Naming.Style == "" {
		c.Naming.Style = naming.DotStyle.String()
	}
	if c.Naming.UserClassForm == "" {
		c.Naming.UserClassForm = naming.PreRename.String()
	}
	if len(c.Naming.RuntimeExceptions) == 0 {
		c.Naming.RuntimeExceptions = naming.StandardExceptions()
	}
	if c.Limits.Energy == 0 {
		c.Limits.Energy = DefaultEnergy
	}
	if c.Limits.MaxDepth == 0 {
		c.Limits.MaxDepth = rt.DefaultMaxDepth
	}
	if c.Limits.MaxSize == 0 {
		c.Limits.MaxSize = rt.DefaultMaxSize
	}
	if len(c.Limits.Policy) == 0 {
		c.Limits.Policy = []string{"depth", "size"}
	}
	if c.Kernel.Backend == "" {
		c.Kernel.Backend = kernel.BackendMemory
	}
	if c.Kernel.Path == "" {
		c.Kernel.Path = filepath.Join(".shadowvm", "state.db")
	}
}

func (c *Config) validate() error {
	if _, err := naming.ParseNameStyle(c.Naming.Style); err != nil {
		return err
	}
	if _, err := c.userClassForm(); err != nil {
		return err
	}
	if _, err := c.prohibited(); err != nil {
		return err
	}
	if _, err := c.stackPolicy(); err != nil {
		return err
	}
	if c.Limits.Energy < 0 || c.Limits.MaxDepth < 0 || c.Limits.MaxSize < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	switch c.Kernel.Backend {
	case kernel.BackendMemory, kernel.BackendSQLite:
	default:
		return fmt.Errorf("unknown kernel backend %q", c.Kernel.Backend)
	}
	return nil
}

func (c *Config) userClassForm() (naming.NameCategory, error) {
	switch strings.ToLower(c.Naming.UserClassForm) {
	case "pre", "pre-rename":
		return naming.PreRename, nil
	case "post", "post-rename":
		return naming.PostRename, nil
	}
	return 0, fmt.Errorf("unknown user-class-form %q", c.Naming.UserClassForm)
}

func (c *Config) prohibited() ([]naming.ClassCategory, error) {
	var out []naming.ClassCategory
	for _, p := range c.Naming.Prohibit {
		cats, err := naming.ParseCategory(p)
		if err != nil {
			return nil, err
		}
		out = append(out, cats...)
	}
	return out, nil
}

func (c *Config) stackPolicy() (rt.StackPolicy, error) {
	var p rt.StackPolicy
	for _, s := range c.Limits.Policy {
		switch strings.ToLower(s) {
		case "depth":
			p |= rt.PolicyDepth
		case "size":
			p |= rt.PolicySize
		case "none":
		default:
			return 0, fmt.Errorf("unknown stack policy %q", s)
		}
	}
	return p, nil
}

// Renamer builds the class renamer the configuration describes.
func (c *Config) Renamer() (*naming.Renamer, error) {
	style, err := naming.ParseNameStyle(c.Naming.Style)
	if err != nil {
		return nil, err
	}
	form, err := c.userClassForm()
	if err != nil {
		return nil, err
	}
	prohibited, err := c.prohibited()
	if err != nil {
		return nil, err
	}
	b := naming.NewBuilder(style, c.Naming.Debug).
		LoadPreRenameRuntimeExceptions(c.Naming.RuntimeExceptions).
		Prohibit(prohibited...)
	if form == naming.PostRename {
		b.LoadPostRenameUserClasses(c.Naming.UserClasses)
	} else {
		b.LoadPreRenameUserClasses(c.Naming.UserClasses)
	}
	return b.Build()
}

// RuntimeLimits returns the stack limits for rt.New.
func (c *Config) RuntimeLimits() (rt.Limits, error) {
	policy, err := c.stackPolicy()
	if err != nil {
		return rt.Limits{}, err
	}
	return rt.Limits{Policy: policy, MaxDepth: c.Limits.MaxDepth, MaxSize: c.Limits.MaxSize}, nil
}

// KernelPath returns the kernel database path, resolved against Dir.
func (c *Config) KernelPath() string {
	if filepath.IsAbs(c.Kernel.Path) || c.Dir == "" {
		return c.Kernel.Path
	}
	return filepath.Join(c.Dir, c.Kernel.Path)
}

// OpenKernel opens the configured account store.
func (c *Config) OpenKernel() (*kernel.Kernel, error) {
	store, err := kernel.Open(c.Kernel.Backend, c.KernelPath())
	if err != nil {
		return nil, err
	}
	k, err := kernel.New(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return k, nil
}
