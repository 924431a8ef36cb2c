package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/snippets/internal/types"
	"github.com/temirov/snippets/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into ~/.snippets.
	InitTargetGlobal InitTarget = "global"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// defaultSettings lists every key of the configuration file with its default value.
func defaultSettings() map[string]any {
	return map[string]any{
		"repository":            ".",
		"process.output_prefix": utils.DefaultOutputPrefix,
		"process.concurrency":   DefaultConcurrency,
		"process.cache_size":    DefaultCacheSize,
		"render.format":         types.FormatRaw,
		"render.copy":           false,
	}
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns its path. An existing file is only replaced with Force.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, pathError := initDestination(options)
	if pathError != nil {
		return "", pathError
	}

	writer := viper.New()
	for key, value := range defaultSettings() {
		writer.Set(key, value)
	}

	var writeError error
	if options.Force {
		writeError = writer.WriteConfigAs(destinationPath)
	} else {
		writeError = writer.SafeWriteConfigAs(destinationPath)
	}
	var existsError viper.ConfigFileAlreadyExistsError
	if errors.As(writeError, &existsError) {
		return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
	}
	if writeError != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeError)
	}
	return destinationPath, nil
}

func initDestination(options InitOptions) (string, error) {
	switch options.Target {
	case InitTargetLocal, "":
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		return filepath.Join(configurationDirectory, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", options.Target)
	}
}
