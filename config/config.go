// Package config loads and validates the YAML desired-state file driving a
// reconcile run.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aurorec/aurorec/executor"
	"github.com/aurorec/aurorec/faults"
	"github.com/aurorec/aurorec/plan"
	"github.com/aurorec/aurorec/types"
)

// MasterPasswordEnv names the environment variable consulted when the
// cluster spec leaves master_password unset. Keeps secrets out of the file.
const MasterPasswordEnv = "AUROREC_MASTER_PASSWORD"

// Config is the full desired state for one reconcile run: one cluster and
// its instances, plus retry, wait, and journal tuning.
type Config struct {
	Version string `yaml:"version" validate:"required"`
	Region  string `yaml:"region" validate:"required"`

	Cluster   *types.ClusterSpec   `yaml:"cluster,omitempty"`
	Instances []types.InstanceSpec `yaml:"instances,omitempty" validate:"dive"`

	Wait    WaitConfig    `yaml:"wait,omitempty"`
	Retry   RetryConfig   `yaml:"retry,omitempty"`
	Journal JournalConfig `yaml:"journal,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "30s"
// or "15m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// WaitConfig tunes poll ceilings. Zero values fall back to defaults.
type WaitConfig struct {
	PollInterval    Duration `yaml:"poll_interval,omitempty"`
	ClusterTimeout  Duration `yaml:"cluster_timeout,omitempty"`
	RestoreTimeout  Duration `yaml:"restore_timeout,omitempty"`
	InstanceTimeout Duration `yaml:"instance_timeout,omitempty"`
	DeleteTimeout   Duration `yaml:"delete_timeout,omitempty"`
}

// RetryConfig tunes transient-error retries.
type RetryConfig struct {
	MaxAttempts     uint     `yaml:"max_attempts,omitempty"`
	InitialInterval Duration `yaml:"initial_interval,omitempty"`
	MaxInterval     Duration `yaml:"max_interval,omitempty"`
}

// JournalConfig locates the local reconcile journal.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Load reads, defaults, and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML. Unknown keys are rejected so typos
// surface instead of silently unmanaging a field.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, faults.Validation("", "parse config", fmt.Errorf("failed to parse config: %w", err))
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	waits := plan.DefaultWaitPolicy()
	if c.Wait.ClusterTimeout == 0 {
		c.Wait.ClusterTimeout = Duration(waits.ClusterTimeout)
	}
	if c.Wait.RestoreTimeout == 0 {
		c.Wait.RestoreTimeout = Duration(waits.RestoreTimeout)
	}
	if c.Wait.InstanceTimeout == 0 {
		c.Wait.InstanceTimeout = Duration(waits.InstanceTimeout)
	}
	if c.Wait.DeleteTimeout == 0 {
		c.Wait.DeleteTimeout = Duration(waits.DeleteTimeout)
	}

	opts := executor.DefaultOptions()
	if c.Wait.PollInterval == 0 {
		c.Wait.PollInterval = Duration(opts.PollInterval)
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = opts.MaxAttempts
	}
	if c.Retry.InitialInterval == 0 {
		c.Retry.InitialInterval = Duration(opts.RetryInitial)
	}
	if c.Retry.MaxInterval == 0 {
		c.Retry.MaxInterval = Duration(opts.RetryMaxInterval)
	}

	if c.Journal.Path == "" {
		c.Journal.Path = defaultJournalPath()
	}

	if c.Cluster != nil && c.Cluster.MasterPassword == "" {
		c.Cluster.MasterPassword = os.Getenv(MasterPasswordEnv)
	}
}

func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aurorec/journal.db"
	}
	return home + "/.aurorec/journal.db"
}

// Validate checks structural constraints and cross-references between the
// cluster and its instances.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return faults.Validation("", "validate config", fmt.Errorf("invalid config: %w", err))
	}
	if c.Cluster != nil {
		if err := validate.Struct(c.Cluster); err != nil {
			return faults.Validation(c.Cluster.ClusterID, "validate config",
				fmt.Errorf("invalid cluster spec: %w", err))
		}
	}

	seen := make(map[string]bool, len(c.Instances))
	for _, instance := range c.Instances {
		if seen[instance.InstanceID] {
			return faults.Validation(instance.InstanceID, "validate config",
				fmt.Errorf("duplicate instance_id %q", instance.InstanceID))
		}
		seen[instance.InstanceID] = true

		if c.Cluster != nil && instance.ClusterID != c.Cluster.ClusterID {
			return faults.Validation(instance.InstanceID, "validate config",
				fmt.Errorf("instance %q references cluster %q, config manages %q",
					instance.InstanceID, instance.ClusterID, c.Cluster.ClusterID))
		}
	}
	return nil
}

// WaitPolicy converts the wait tuning into planner ceilings.
func (c *Config) WaitPolicy() plan.WaitPolicy {
	return plan.WaitPolicy{
		ClusterTimeout:  c.Wait.ClusterTimeout.Std(),
		RestoreTimeout:  c.Wait.RestoreTimeout.Std(),
		InstanceTimeout: c.Wait.InstanceTimeout.Std(),
		DeleteTimeout:   c.Wait.DeleteTimeout.Std(),
	}
}

// ExecutorOptions converts the retry and poll tuning into executor options.
func (c *Config) ExecutorOptions() executor.Options {
	return executor.Options{
		PollInterval:     c.Wait.PollInterval.Std(),
		MaxAttempts:      c.Retry.MaxAttempts,
		RetryInitial:     c.Retry.InitialInterval.Std(),
		RetryMaxInterval: c.Retry.MaxInterval.Std(),
	}
}
