package driver

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"pel/interpreter-go/pkg/tracefmt"
)

// ConfigFileName is the project configuration file looked up from the
// working directory upwards.
const ConfigFileName = "pel.yml"

// ErrConfigNotFound reports that no pel.yml exists in any parent directory.
var ErrConfigNotFound = errors.New("pel.yml not found")

//go:embed schema.json
var configSchemaJSON string

// Config is the parsed contents of pel.yml with defaults applied.
type Config struct {
	// Path is the absolute path of the file the config was read from; empty
	// for the defaults.
	Path string
	// Program is the default entry file, absolute when loaded from disk.
	Program string
	Run     RunConfig
	Log     LogConfig
	Trace   TraceConfig
	Step    StepConfig
}

type RunConfig struct {
	// MaxSteps stops a run after that many suspensions. Zero means
	// unlimited.
	MaxSteps int
}

type LogConfig struct {
	Level  string
	Format string
}

type TraceConfig struct {
	Format tracefmt.Format
}

type StepConfig struct {
	History string
	// Color is nil when unset so the CLI can fall back to terminal
	// detection.
	Color *bool
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed")
	if e.Path != "" {
		fmt.Fprintf(&b, " for %s", e.Path)
	}
	b.WriteByte(':')
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig is used when no pel.yml is present.
func DefaultConfig() *Config {
	return &Config{
		Log:   LogConfig{Level: "warn", Format: "console"},
		Trace: TraceConfig{Format: tracefmt.FormatJSON},
	}
}

type configFile struct {
	Program string `yaml:"program"`
	Run     struct {
		MaxSteps int `yaml:"max_steps"`
	} `yaml:"run"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Trace struct {
		Format string `yaml:"format"`
	} `yaml:"trace"`
	Step struct {
		History string `yaml:"history"`
		Color   *bool  `yaml:"color"`
	} `yaml:"step"`
}

// LoadConfig parses and validates a pel.yml file. Relative paths inside it
// are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", absPath, err)
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	if generic == nil {
		return nil, fmt.Errorf("config: %s is empty", absPath)
	}
	if err := validateSchema(absPath, generic); err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg := raw.toConfig(absPath)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw configFile) toConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	dir := filepath.Dir(path)
	if p := strings.TrimSpace(raw.Program); p != "" {
		cfg.Program = resolveRelative(dir, p)
	}
	cfg.Run.MaxSteps = raw.Run.MaxSteps
	if lvl := strings.TrimSpace(raw.Log.Level); lvl != "" {
		cfg.Log.Level = lvl
	}
	if f := strings.TrimSpace(raw.Log.Format); f != "" {
		cfg.Log.Format = f
	}
	if f := strings.TrimSpace(raw.Trace.Format); f != "" {
		cfg.Trace.Format = tracefmt.Format(f)
	}
	if h := strings.TrimSpace(raw.Step.History); h != "" {
		cfg.Step.History = resolveRelative(dir, h)
	}
	cfg.Step.Color = raw.Step.Color
	return cfg
}

func resolveRelative(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}
	if c.Run.MaxSteps < 0 {
		errs.Issues = append(errs.Issues, "run.max_steps must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.level: %v", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}
	if _, err := tracefmt.ParseFormat(string(c.Trace.Format)); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("trace.format: %v", err))
	}
	if c.Program != "" && filepath.Ext(c.Program) != ".pel" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("program %q must be a .pel file", c.Program))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		const url = "schema://pel.json"
		if err := compiler.AddResource(url, strings.NewReader(configSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("config: load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(url)
	})
	return compiledSchema, schemaErr
}

// validateSchema checks the decoded YAML document against the embedded JSON
// Schema. The document is round-tripped through JSON so numbers and maps
// have the shapes the validator expects.
func validateSchema(path string, doc any) error {
	schema, err := configSchema()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}

	err = schema.Validate(instance)
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	issues := leafIssues(verr, nil)
	sort.Strings(issues)
	return &ValidationError{Path: path, Issues: issues}
}

func leafIssues(verr *jsonschema.ValidationError, out []string) []string {
	if len(verr.Causes) == 0 {
		loc := strings.TrimPrefix(verr.InstanceLocation, "/")
		if loc == "" {
			loc = "(root)"
		}
		return append(out, fmt.Sprintf("%s: %s", strings.ReplaceAll(loc, "/", "."), verr.Message))
	}
	for _, cause := range verr.Causes {
		out = leafIssues(cause, out)
	}
	return out
}

// FindConfig walks from start up to the filesystem root looking for
// pel.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrConfigNotFound)
		}
		dir = parent
	}
}

// LoadConfigFrom finds and loads the nearest pel.yml, returning the
// defaults when there is none.
func LoadConfigFrom(start string) (*Config, error) {
	path, err := FindConfig(start)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}
