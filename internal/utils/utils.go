// Package utils contains general helper functions used across the snippets tool.
package utils

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the home directory holding global configuration.
	GlobalConfigDirectoryName = ".snippets"
	// RepositoryEnvironmentVariable names the repository when no flag is given.
	RepositoryEnvironmentVariable = "SNIPPETS_REPOSITORY"
	// DefaultOutputPrefix is prepended to the base name of processed documents.
	DefaultOutputPrefix = "processed_"
)

// DeduplicateStrings removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := encounteredValues[value]; !exists {
			encounteredValues[value] = struct{}{}
			result = append(result, value)
		}
	}
	return result
}
