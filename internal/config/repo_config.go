package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// FileName is the repo config file inside the git directory
const FileName = ".restack_config"

const (
	// DefaultTrunk is used when no trunk is configured
	DefaultTrunk = "main"
	// DefaultRemote is used when no remote is configured
	DefaultRemote = "origin"
	// DefaultCheckpointBackend is used when no checkpoint backend is configured
	DefaultCheckpointBackend = "file"
)

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Trunk             string   `json:"trunk" mapstructure:"trunk"`
	Remote            string   `json:"remote,omitempty" mapstructure:"remote"`
	IgnoreBranches    []string `json:"ignoreBranches,omitempty" mapstructure:"ignoreBranches"`
	CheckpointBackend string   `json:"checkpointBackend,omitempty" mapstructure:"checkpointBackend"`
}

// IsIgnored reports whether branchName is excluded from stacks
func (c *RepoConfig) IsIgnored(branchName string) bool {
	return slices.Contains(c.IgnoreBranches, branchName)
}

// AddIgnoredBranch adds branchName to the ignore list
func (c *RepoConfig) AddIgnoredBranch(branchName string) error {
	if branchName == c.Trunk {
		return fmt.Errorf("cannot ignore trunk branch %s", branchName)
	}
	if c.IsIgnored(branchName) {
		return fmt.Errorf("branch %s is already ignored", branchName)
	}
	c.IgnoreBranches = append(c.IgnoreBranches, branchName)
	slices.Sort(c.IgnoreBranches)
	return nil
}

// RemoveIgnoredBranch removes branchName from the ignore list
func (c *RepoConfig) RemoveIgnoredBranch(branchName string) error {
	if !c.IsIgnored(branchName) {
		return fmt.Errorf("branch %s is not ignored", branchName)
	}
	c.IgnoreBranches = slices.DeleteFunc(c.IgnoreBranches, func(s string) bool {
		return s == branchName
	})
	return nil
}

// Loader reads and writes the repo config of one repository
type Loader struct {
	fs     afero.Fs
	gitDir string
}

// NewLoader creates a Loader for the repository whose git directory is gitDir
func NewLoader(fs afero.Fs, gitDir string) *Loader {
	return &Loader{fs: fs, gitDir: gitDir}
}

// Path returns the config file path
func (l *Loader) Path() string {
	return filepath.Join(l.gitDir, FileName)
}

// IsInitialized reports whether the config file exists
func (l *Loader) IsInitialized() bool {
	exists, err := afero.Exists(l.fs, l.Path())
	return err == nil && exists
}

func (l *Loader) newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(l.fs)
	v.SetConfigFile(l.Path())
	v.SetConfigType("json")

	v.SetDefault("trunk", DefaultTrunk)
	v.SetDefault("remote", DefaultRemote)
	v.SetDefault("ignoreBranches", []string{})
	v.SetDefault("checkpointBackend", DefaultCheckpointBackend)

	v.SetEnvPrefix("RESTACK")
	_ = v.BindEnv("trunk", "RESTACK_TRUNK")
	_ = v.BindEnv("remote", "RESTACK_REMOTE")
	_ = v.BindEnv("checkpointBackend", "RESTACK_CHECKPOINT_BACKEND")
	v.AutomaticEnv()
	return v
}

// Load reads the config, applying defaults and environment overrides.
// A missing file yields the defaults.
func (l *Loader) Load() (*RepoConfig, error) {
	v := l.newViper()
	if l.IsInitialized() {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read repo config: %w", err)
		}
	}

	var config RepoConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}
	if config.Trunk == "" {
		config.Trunk = DefaultTrunk
	}
	return &config, nil
}

// Save writes config to disk
func (l *Loader) Save(config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := afero.WriteFile(l.fs, l.Path(), configJSON, 0600); err != nil {
		return fmt.Errorf("failed to write repo config: %w", err)
	}
	return nil
}
