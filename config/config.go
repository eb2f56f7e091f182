// Package config loads the configuration for the dispatch queues and tasks from YAML, with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/cubeplusplus/dispatch/log"
	"github.com/cubeplusplus/dispatch/pqueue"
	"github.com/cubeplusplus/dispatch/task"
)

// ErrInvalid is the root of errors returned for configuration which parses but can't be used.
var ErrInvalid = errors.New("invalid configuration")

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Config is the top level configuration.
type Config struct {
	Log   LogConfig             `yaml:"log"`
	Queue QueueConfig           `yaml:"queue"`
	Tasks map[string]TaskConfig `yaml:"tasks"`
}

// LogConfig configures the process wide logger.
type LogConfig struct {
	// Level is the minimum level logged, see 'log.ParseLevel'.
	Level string `yaml:"level"`

	// Format is either 'json' or 'text'.
	Format string `yaml:"format"`
}

// QueueConfig configures every queue, zero values take the queue's defaults.
type QueueConfig struct {
	Capacity         int           `yaml:"capacity"`
	LockTimeout      time.Duration `yaml:"lock_timeout"`
	WakeSendTimeout  time.Duration `yaml:"wake_send_timeout"`
	MaxFaults        int           `yaml:"max_faults"`
	SeqLimit         uint64        `yaml:"seq_limit"`
	DisableWrapCheck bool          `yaml:"disable_wrap_check"`
}

// TaskConfig configures a single named task.
type TaskConfig struct {
	// QueueDepth overrides the queue capacity for the task's mailbox.
	QueueDepth int `yaml:"queue_depth"`

	// SendRate is the number of items per second the task admits, zero is unlimited.
	SendRate float64 `yaml:"send_rate"`

	SendBurst  int `yaml:"send_burst"`
	ThreadNice int `yaml:"thread_nice"`
}

// Load reads and parses the configuration file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %q: %w", path, err)
	}

	return config, nil
}

// Parse parses the given YAML, expanding any '${VAR}' references to environment variables and then applying the
// 'DISPATCH_*' overrides.
func Parse(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(interpolate(data), &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// interpolate replaces '${VAR}' with the value of the environment variable, unset variables expand to nothing.
func interpolate(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		return []byte(os.Getenv(string(envVarPattern.FindSubmatch(match)[1])))
	})
}

func (c *Config) validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format '%s'", ErrInvalid, c.Log.Format)
	}

	if c.Queue.Capacity < 0 {
		return fmt.Errorf("%w: queue capacity must not be negative", ErrInvalid)
	}

	if c.Queue.LockTimeout < 0 || c.Queue.WakeSendTimeout < 0 {
		return fmt.Errorf("%w: queue timeouts must not be negative", ErrInvalid)
	}

	if c.Queue.MaxFaults < 0 {
		return fmt.Errorf("%w: max faults must not be negative", ErrInvalid)
	}

	if c.Queue.SeqLimit == 1 {
		return fmt.Errorf("%w: sequence limit must be at least 2", ErrInvalid)
	}

	for name, task := range c.Tasks {
		if task.QueueDepth < 0 || task.SendRate < 0 || task.SendBurst < 0 {
			return fmt.Errorf("%w: task '%s' has a negative setting", ErrInvalid, name)
		}
	}

	return nil
}

// Logger returns a logger writing to w in the configured format, filtered to the configured level.
func (c *Config) Logger(w io.Writer) log.Logger {
	// Already validated
	level, _ := log.ParseLevel(c.Log.Level)

	if c.Log.Format == "text" {
		return &levelFilter{min: level, inner: log.StdoutLogger{Out: w}}
	}

	return log.NewJSONLogger(w, level)
}

type levelFilter struct {
	min   log.Level
	inner log.Logger
}

func (l *levelFilter) Log(level log.Level, format string, args ...any) {
	if level >= l.min {
		l.inner.Log(level, format, args...)
	}
}

// QueueOptions returns the options for a queue, the caller supplies the logger, reporter and fatal hook.
func (c *Config) QueueOptions() pqueue.Options {
	return pqueue.Options{
		Capacity:         c.Queue.Capacity,
		LockTimeout:      c.Queue.LockTimeout,
		WakeSendTimeout:  c.Queue.WakeSendTimeout,
		MaxFaults:        c.Queue.MaxFaults,
		SeqLimit:         c.Queue.SeqLimit,
		DisableWrapCheck: c.Queue.DisableWrapCheck,
	}
}

// TaskOptions returns the options for the named task; tasks without their own section use the queue settings alone.
func (c *Config) TaskOptions(name string) task.Options {
	var (
		queue = c.QueueOptions()
		cfg   = c.Tasks[name]
	)

	opts := task.Options{
		Name:       name,
		QueueDepth: c.Queue.Capacity,
		SendRate:   rate.Limit(cfg.SendRate),
		SendBurst:  cfg.SendBurst,
		ThreadNice: cfg.ThreadNice,
	}

	if cfg.QueueDepth != 0 {
		opts.QueueDepth = cfg.QueueDepth
	}

	// The task sizes its own mailbox
	queue.Capacity = 0
	opts.Queue = queue

	return opts
}
