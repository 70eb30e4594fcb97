// Package config loads robot profiles. Configuration is layered in the
// order embedded defaults, profile file (TOML or YAML), then
// CABLEKIT_* environment variables, with later layers winning.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	tomlenc "github.com/pelletier/go-toml/v2"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/logging"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix of environment variable overrides, e.g.
// CABLEKIT_ROBOT_MODEL=planar-xy.
const EnvPrefix = "CABLEKIT_"

// Profile describes one robot and how to simulate it.
type Profile struct {
	Robot RobotConfig `koanf:"robot" toml:"robot"`
	Sim   SimConfig   `koanf:"sim" toml:"sim"`
}

// RobotConfig names the dynamics model and carries its factory options.
type RobotConfig struct {
	// Name is a free-form label for the rig
	Name string `koanf:"name" toml:"name"`

	// Model is the registered model factory to instantiate
	Model string `koanf:"model" toml:"model"`

	// Options are passed verbatim to the model factory
	Options map[string]interface{} `koanf:"options" toml:"options,omitempty"`
}

// SimConfig holds integrator settings.
type SimConfig struct {
	// Step is the fixed integration step in seconds
	Step float64 `koanf:"step" toml:"step"`

	// Duration is the default simulated time span in seconds
	Duration float64 `koanf:"duration" toml:"duration"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrNotImplemented, "rawBytesProvider has no map form")
}

// Default returns the built-in profile with no file or env layers
// applied.
func Default() (*Profile, error) {
	return load("")
}

// Load reads the profile at path on top of the embedded defaults and
// applies environment overrides. A missing path is not an error when it
// is empty; a named file that does not exist is.
func Load(path string) (*Profile, error) {
	return load(path)
}

func load(path string) (*Profile, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "profile %s not readable", path)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse profile %s", path)
		}
		logger.Debug().Str("path", path).Msg("profile loaded")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var profile Profile
	if err := k.Unmarshal("", &profile); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal profile")
	}

	if err := validate(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported profile format %q", filepath.Ext(path))
	}
}

func validate(p *Profile) error {
	if p.Robot.Model == "" {
		return errors.New(errors.ErrConfigValid, "robot.model must not be empty")
	}
	if p.Sim.Step <= 0 {
		return errors.Newf(errors.ErrConfigValid, "sim.step must be positive, got %g", p.Sim.Step)
	}
	if p.Sim.Duration < 0 {
		return errors.Newf(errors.ErrConfigValid, "sim.duration must not be negative, got %g", p.Sim.Duration)
	}
	return nil
}

// WriteDefault writes the built-in defaults as a TOML profile the user
// can edit, refusing to clobber an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "profile %s already exists", path)
	}

	profile, err := Default()
	if err != nil {
		return err
	}

	data, err := tomlenc.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode profile")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to write %s", path)
	}
	return nil
}
