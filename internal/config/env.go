package config

import (
	"emperror.dev/errors"
	"github.com/caarlos0/env/v11"
)

// Settings holds the environment overrides understood by the CLI. Command
// line flags take precedence over these.
type Settings struct {
	// Config is the path of the model description.
	Config string `env:"MPBAS_CONFIG"`

	// Workspace overrides the workspace named in the description.
	Workspace string `env:"MPBAS_WORKSPACE"`

	// Debug enables debug logging.
	Debug bool `env:"MPBAS_DEBUG"`

	// Image is the Docker image used by "run --docker".
	Image string `env:"MPBAS_IMAGE"`

	// Executable is the MODPATH 7 executable name or path.
	Executable string `env:"MPBAS_EXECUTABLE" envDefault:"mp7"`
}

// LoadSettings reads Settings from the process environment.
func LoadSettings() (Settings, error) {
	return parseSettings(env.Options{})
}

func parseSettings(opts env.Options) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, errors.Wrap(err, "invalid MPBAS_* environment settings")
	}
	return s, nil
}
