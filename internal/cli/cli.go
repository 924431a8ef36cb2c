// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/snippets/internal/commands"
	"github.com/temirov/snippets/internal/config"
	"github.com/temirov/snippets/internal/directive"
	"github.com/temirov/snippets/internal/output"
	"github.com/temirov/snippets/internal/resolver"
	"github.com/temirov/snippets/internal/services/clipboard"
	"github.com/temirov/snippets/internal/services/repository"
	"github.com/temirov/snippets/internal/types"
	"github.com/temirov/snippets/internal/utils"
)

const (
	versionFlagName      = "version"
	configFlagName       = "config"
	repositoryFlagName   = "repository"
	verboseFlagName      = "verbose"
	formatFlagName       = "format"
	copyFlagName         = "copy"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionTemplate      = "snippets version: %s\n"
	rootUse              = "snippets"
	rootShortDescription = "render versioned source excerpts into LaTeX documents"
	rootLongDescription  = `snippets replaces directive comments in TeX documents with minted code blocks.
A directive names a commit, a file and optional line ranges:

  %: 29ec1fedbf307e3b7ca731c4a381535fec899b0b
  %: src/lintrans/matrices/wrapper.py:11-22 noscopes

Every document passed to process is written next to the original with the
configured output prefix. Use render to preview a single directive.`
	processUse              = types.CommandProcess + " <documents...>"
	processAlias            = "p"
	processShortDescription = "process TeX documents (" + processAlias + ")"
	processLongDescription  = `Resolve every directive of the given documents against the repository and
write the processed copies. Failed directives are reported and left untouched.`
	processUsageExample = `  # Process a chapter using the repository in the working directory
  snippets process chapter1.tex

  # Process against another checkout with more parallel lookups
  snippets process --repository ../project chapter1.tex chapter2.tex`
	renderUse              = types.CommandRender + " <revision> <path[:lines]> [options...]"
	renderAlias            = "r"
	renderShortDescription = "render a single directive (" + renderAlias + ")"
	renderLongDescription  = `Render one directive to standard output.
Use --format raw for the LaTeX block or --format json for the resolved snippet.`
	renderUsageExample = `  # Render lines 11 to 22 without scope lines
  snippets render 29ec1fedbf307e3b7ca731c4a381535fec899b0b src/wrapper.py:11-22 noscopes

  # Inspect a markdown excerpt as JSON and copy it
  snippets render --format json --copy 29ec1fedbf307e3b7ca731c4a381535fec899b0b README.md:1-5 markdown!`
	configUse                   = "config"
	configShortDescription      = "manage configuration files"
	configInitUse               = "init"
	configInitShortDescription  = "write the default configuration file"
	versionFlagDescription      = "display application version"
	configFlagDescription       = "path to a configuration file"
	repositoryFlagDescription   = "path of the git repository snippets are read from"
	verboseFlagDescription      = "log every processed directive"
	formatFlagDescription       = "output format (raw or json)"
	copyFlagDescription         = "copy the rendered output to the clipboard"
	globalFlagDescription       = "write to the global configuration directory"
	forceFlagDescription        = "overwrite an existing configuration file"
	invalidFormatMessage        = "invalid format value '%s'"
	malformedDirectiveMessage   = "malformed directive %q"
	revisionLengthMessage       = "revision %q must be a full %d-digit commit hash"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	configurationWrittenFormat  = "wrote configuration to %s\n"
	copyFailedMessage           = "failed to copy output to clipboard"
)

var errMalformedDirective = errors.New("directive does not match the directive grammar")

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON:
		return true
	default:
		return false
	}
}

// Execute runs the snippets application.
func Execute(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCommand := createRootCommand(applicationDependencies{
		logger:    logger,
		clipboard: clipboard.NewService(),
		getenv:    os.Getenv,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// applicationDependencies holds collaborators replaced in tests.
type applicationDependencies struct {
	logger    *zap.Logger
	clipboard clipboard.Copier
	getenv    func(string) string
}

// globalOptions stores persistent flag values.
type globalOptions struct {
	showVersion    bool
	configPath     string
	repositoryPath string
	verbose        bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies applicationDependencies) *cobra.Command {
	if dependencies.logger == nil {
		dependencies.logger = zap.NewNop()
	}
	if dependencies.getenv == nil {
		dependencies.getenv = os.Getenv
	}
	var global globalOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if global.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			if global.verbose {
				verboseLogger, loggerError := utils.NewLeveledLogger(zapcore.DebugLevel)
				if loggerError != nil {
					return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
				}
				dependencies.logger = verboseLogger
			}
			return nil
		},
	}
	registerBooleanFlag(rootCommand.PersistentFlags(), &global.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&global.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	rootCommand.PersistentFlags().StringVar(&global.repositoryPath, repositoryFlagName, utils.EmptyString, repositoryFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &global.verbose, verboseFlagName, false, verboseFlagDescription)

	rootCommand.AddCommand(
		createProcessCommand(&global, &dependencies),
		createRenderCommand(&global, &dependencies),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createProcessCommand returns the process subcommand.
func createProcessCommand(global *globalOptions, dependencies *applicationDependencies) *cobra.Command {
	return &cobra.Command{
		Use:     processUse,
		Aliases: []string{processAlias},
		Short:   processShortDescription,
		Long:    processLongDescription,
		Example: processUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				return commands.ErrNoDocuments
			}
			applicationConfiguration, configurationError := loadConfiguration(global)
			if configurationError != nil {
				return configurationError
			}
			contentResolver, resolverError := openResolver(global, applicationConfiguration, dependencies.getenv)
			if resolverError != nil {
				return resolverError
			}
			_, processError := commands.ProcessFiles(command.Context(), arguments, commands.DocumentOptions{
				Resolver:     contentResolver,
				Logger:       dependencies.logger,
				Concurrency:  applicationConfiguration.Process.ResolvedConcurrency(),
				OutputPrefix: applicationConfiguration.Process.ResolvedOutputPrefix(),
			})
			return processError
		},
	}
}

// renderOptions stores flag values of the render command.
type renderOptions struct {
	format string
	copy   bool
}

// createRenderCommand returns the render subcommand.
func createRenderCommand(global *globalOptions, dependencies *applicationDependencies) *cobra.Command {
	var renderConfiguration renderOptions

	renderCommand := &cobra.Command{
		Use:     renderUse,
		Aliases: []string{renderAlias},
		Short:   renderShortDescription,
		Long:    renderLongDescription,
		Example: renderUsageExample,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfiguration(global)
			if configurationError != nil {
				return configurationError
			}
			format := applicationConfiguration.Render.ResolvedFormat()
			if command.Flags().Changed(formatFlagName) {
				format = renderConfiguration.format
			}
			format = strings.ToLower(format)
			if !isSupportedFormat(format) {
				return fmt.Errorf(invalidFormatMessage, format)
			}
			copyEnabled := renderConfiguration.copy
			if !command.Flags().Changed(copyFlagName) && applicationConfiguration.Render.Copy != nil {
				copyEnabled = *applicationConfiguration.Render.Copy
			}

			if len(arguments[0]) != types.RevisionLength {
				return fmt.Errorf("%w: "+revisionLengthMessage, errMalformedDirective, arguments[0], types.RevisionLength)
			}
			directiveText := directive.Compose(arguments[0], strings.Join(arguments[1:], " "))
			parsedDirective, matched := directive.Parse(directiveText)
			if !matched {
				return fmt.Errorf("%w: "+malformedDirectiveMessage, errMalformedDirective, directiveText)
			}

			contentResolver, resolverError := openResolver(global, applicationConfiguration, dependencies.getenv)
			if resolverError != nil {
				return resolverError
			}
			snippetData, snippetError := commands.GetSnippetData(command.Context(), contentResolver, parsedDirective)
			if snippetError != nil {
				return snippetError
			}
			if snippetData.DiscardedOption != "" {
				dependencies.logger.Warn(commands.DiscardedOptionsMessage, zap.String(commands.LogFieldToken, snippetData.DiscardedOption))
			}
			dependencies.logger.Debug(commands.ProcessingDirectiveMessage, zap.String(commands.LogFieldDirective, commands.DescribeDirective(parsedDirective, snippetData.Snippet.Configuration)))

			rendered := output.RenderLatex(snippetData.Snippet)
			if format == types.FormatJSON {
				renderedJSON, renderError := output.RenderJSON(snippetData.Snippet)
				if renderError != nil {
					return renderError
				}
				rendered = renderedJSON
			}
			fmt.Fprintln(command.OutOrStdout(), rendered)

			if copyEnabled && dependencies.clipboard != nil {
				if copyError := dependencies.clipboard.Copy(rendered); copyError != nil {
					dependencies.logger.Warn(copyFailedMessage, zap.Error(copyError))
				}
			}
			return nil
		},
	}

	renderCommand.Flags().StringVar(&renderConfiguration.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(renderCommand.Flags(), &renderConfiguration.copy, copyFlagName, false, copyFlagDescription)
	return renderCommand
}

// createConfigCommand returns the config subcommand and its init child.
func createConfigCommand() *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: overwrite})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, destinationPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &writeGlobal, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &overwrite, forceFlagName, false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}

func loadConfiguration(global *globalOptions) (config.ApplicationConfiguration, error) {
	return config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: global.configPath})
}

// resolveRepositoryPath picks the repository from the flag, the environment,
// the configuration file or the working directory, in that order.
func resolveRepositoryPath(flagValue string, getenv func(string) string, configured string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if environmentValue := getenv(utils.RepositoryEnvironmentVariable); environmentValue != "" {
		return environmentValue, nil
	}
	if configured != "" {
		return configured, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return workingDirectory, nil
}

// openResolver opens the repository and wraps it with the configured blob cache.
func openResolver(global *globalOptions, applicationConfiguration config.ApplicationConfiguration, getenv func(string) string) (*resolver.Resolver, error) {
	repositoryPath, pathError := resolveRepositoryPath(global.repositoryPath, getenv, applicationConfiguration.Repository)
	if pathError != nil {
		return nil, pathError
	}
	provider, openError := repository.Open(repositoryPath)
	if openError != nil {
		return nil, openError
	}
	cachedProvider, cacheError := repository.NewCachedProvider(provider, applicationConfiguration.Process.ResolvedCacheSize())
	if cacheError != nil {
		return nil, cacheError
	}
	return resolver.New(cachedProvider), nil
}
