// Package config loads application configuration from global and local YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/snippets/internal/types"
	"github.com/temirov/snippets/internal/utils"
)

const (
	// DefaultConcurrency bounds how many directives of one document are resolved at once.
	DefaultConcurrency = 4
	// DefaultCacheSize is the number of file revisions kept in memory during one run.
	DefaultCacheSize = 128
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Repository string               `mapstructure:"repository"`
	Process    ProcessConfiguration `mapstructure:"process"`
	Render     RenderConfiguration  `mapstructure:"render"`
}

// ProcessConfiguration defines options of the process command.
type ProcessConfiguration struct {
	OutputPrefix string `mapstructure:"output_prefix"`
	Concurrency  *int   `mapstructure:"concurrency"`
	CacheSize    *int   `mapstructure:"cache_size"`
}

// RenderConfiguration defines options of the render command.
type RenderConfiguration struct {
	Format string `mapstructure:"format"`
	Copy   *bool  `mapstructure:"copy"`
}

// LoadApplicationConfiguration reads the global file and then the local one,
// each overriding what was read before it. Missing files are skipped.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	candidatePaths, pathError := configurationPaths(options)
	if pathError != nil {
		return ApplicationConfiguration{}, pathError
	}
	var merged ApplicationConfiguration
	for _, candidatePath := range candidatePaths {
		fileConfiguration, found, readError := readConfigurationFile(candidatePath)
		if readError != nil {
			return ApplicationConfiguration{}, readError
		}
		if found {
			merged = merged.Merge(fileConfiguration)
		}
	}
	return merged, nil
}

// configurationPaths lists configuration files in increasing precedence.
func configurationPaths(options LoadOptions) ([]string, error) {
	var candidatePaths []string
	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		candidatePaths = append(candidatePaths, filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName))
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = utils.ConfigFileName
	}
	if !filepath.IsAbs(localPath) {
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return nil, fmt.Errorf("determine working directory: %w", workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		localPath = filepath.Join(workingDirectory, localPath)
	}
	return append(candidatePaths, localPath), nil
}

// readConfigurationFile decodes one YAML file. A relative repository path is
// resolved against the directory holding the file.
func readConfigurationFile(path string) (ApplicationConfiguration, bool, error) {
	info, statError := os.Stat(path)
	switch {
	case os.IsNotExist(statError):
		return ApplicationConfiguration{}, false, nil
	case statError != nil:
		return ApplicationConfiguration{}, false, fmt.Errorf("stat configuration %s: %w", path, statError)
	case info.IsDir():
		return ApplicationConfiguration{}, false, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, false, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var fileConfiguration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&fileConfiguration); decodeError != nil {
		return ApplicationConfiguration{}, false, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	if fileConfiguration.Repository != "" && !filepath.IsAbs(fileConfiguration.Repository) {
		fileConfiguration.Repository = filepath.Join(filepath.Dir(path), fileConfiguration.Repository)
	}
	return fileConfiguration, true, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Repository != "" {
		result.Repository = override.Repository
	}
	result.Process = result.Process.merge(override.Process)
	result.Render = result.Render.merge(override.Render)
	return result
}

func (config ProcessConfiguration) merge(override ProcessConfiguration) ProcessConfiguration {
	result := config
	if override.OutputPrefix != "" {
		result.OutputPrefix = override.OutputPrefix
	}
	if override.Concurrency != nil {
		result.Concurrency = cloneInt(override.Concurrency)
	}
	if override.CacheSize != nil {
		result.CacheSize = cloneInt(override.CacheSize)
	}
	return result
}

func (config RenderConfiguration) merge(override RenderConfiguration) RenderConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

// ResolvedOutputPrefix returns the configured output prefix or the default.
func (config ProcessConfiguration) ResolvedOutputPrefix() string {
	if config.OutputPrefix == "" {
		return utils.DefaultOutputPrefix
	}
	return config.OutputPrefix
}

// ResolvedConcurrency returns the configured concurrency or the default.
func (config ProcessConfiguration) ResolvedConcurrency() int {
	if config.Concurrency == nil || *config.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return *config.Concurrency
}

// ResolvedCacheSize returns the configured cache size or the default. Zero disables the cache.
func (config ProcessConfiguration) ResolvedCacheSize() int {
	if config.CacheSize == nil || *config.CacheSize < 0 {
		return DefaultCacheSize
	}
	return *config.CacheSize
}

// ResolvedFormat returns the configured render format or raw.
func (config RenderConfiguration) ResolvedFormat() string {
	if config.Format == "" {
		return types.FormatRaw
	}
	return config.Format
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
