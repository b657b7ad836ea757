package cli

import (
	"fmt"
	"os"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/mmr-tortoise/mpbas/internal/config"
	"github.com/mmr-tortoise/mpbas/internal/model"
	"github.com/mmr-tortoise/mpbas/internal/modpath"
	"github.com/mmr-tortoise/mpbas/internal/mpbas"
)

// loadedModel is a model description together with what was built from it.
type loadedModel struct {
	path  string
	file  *config.File
	model *modpath.Model
	pkg   *mpbas.Package
}

// resolveConfigPath picks the model description: --config first, then
// MPBAS_CONFIG, then a well-known file name in the working directory.
func resolveConfigPath() (string, error) {
	switch {
	case configPath != "":
		return configPath, nil
	case settings.Config != "":
		return settings.Config, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine working directory")
	}
	return config.Find(wd)
}

// loadModel reads, validates and builds the model description. A non-empty
// workspace overrides the one in the description, as does MPBAS_WORKSPACE.
//
// Validation failures are returned as a CLIError with ExitInvalidConfig.
func loadModel(workspace string) (*loadedModel, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if workspace == "" {
		workspace = settings.Workspace
	}
	if workspace != "" {
		f.Workspace = workspace
	}

	m, p, err := f.Build()
	if err != nil {
		var vErrs config.ValidationErrors
		var vErr *model.ValidationError
		if errors.As(err, &vErrs) || errors.As(err, &vErr) {
			return nil, model.WrapCLIError(model.ExitInvalidConfig, fmt.Sprintf("invalid model description %s", path), err)
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"config":    path,
		"model":     m.Name(),
		"workspace": m.Workspace(),
		"flow":      m.FlowVersion().String(),
	}).Debug("loaded model description")

	return &loadedModel{path: path, file: f, model: m, pkg: p}, nil
}
