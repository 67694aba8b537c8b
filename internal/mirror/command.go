package mirror

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/repomirror/repomirror/internal/execshell"
	"github.com/repomirror/repomirror/internal/ui"
	"github.com/repomirror/repomirror/internal/utils"
)

const (
	commandUseConstant                    = "mirror"
	commandShortDescriptionConstant       = "Mirror repositories from one hosting origin to another"
	commandLongDescriptionConstant        = "mirror clones every listed repository with --mirror, retargets the origin push URL at the destination host, publishes all refs with a mirror push, and removes the temporary local clone."
	mirrorCommandErrorTemplateConstant    = "repository migration failed: %w"
	originHostFlagNameConstant            = "origin-host"
	originHostFlagUsageConstant           = "Base URL prepended to each repository name to form the clone source"
	destinationHostFlagNameConstant       = "dest-host"
	destinationHostFlagUsageConstant      = "Base URL prepended to each repository name to form the push target"
	repositoriesFlagNameConstant          = "repos"
	repositoriesFlagUsageConstant         = "Repository names to migrate in order (repeatable or comma separated)"
	skipPushFlagNameConstant              = "no-push"
	skipPushFlagUsageConstant             = "Clone and retarget the push remote but skip the mirror push"
	keepMirrorFlagNameConstant            = "keep-mirror"
	keepMirrorFlagUsageConstant           = "Keep the local mirror directory after a successful migration"
	migrationSummaryMessageConstant       = "Migration run completed"
	logFieldCompletedRepositoriesConstant = "completed_repositories"
	logFieldPushedRepositoriesConstant    = "pushed_repositories"
	logMessageMigrationFailedConstant     = "Migration run failed"
)

// MigrationExecutor runs the migration workflow.
type MigrationExecutor interface {
	Execute(executionContext context.Context, options MigrationOptions) (MigrationResult, error)
}

// ServiceProvider constructs a migration executor from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (MigrationExecutor, error)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the mirror Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  GitExecutor
	FileSystem                   WorkspaceFileSystem
	ServiceProvider              ServiceProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	NarrationWriter              io.Writer
	WorkingDirectory             string
}

type commandOptions struct {
	debugLoggingEnabled bool
	migration           MigrationOptions
}

// Build constructs the mirror command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE:          builder.runMirror,
	}

	command.Flags().String(originHostFlagNameConstant, "", originHostFlagUsageConstant)
	command.Flags().String(destinationHostFlagNameConstant, "", destinationHostFlagUsageConstant)
	command.Flags().StringSlice(repositoriesFlagNameConstant, nil, repositoriesFlagUsageConstant)
	command.Flags().Bool(skipPushFlagNameConstant, false, skipPushFlagUsageConstant)
	command.Flags().Bool(keepMirrorFlagNameConstant, false, keepMirrorFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runMirror(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger(options.debugLoggingEnabled)

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:      logger,
		GitExecutor: executor,
		FileSystem:  builder.resolveFileSystem(),
	})
	if serviceError != nil {
		return serviceError
	}

	result, migrationError := service.Execute(command.Context(), options.migration)
	if migrationError != nil {
		logger.Error(
			logMessageMigrationFailedConstant,
			zap.Strings(logFieldCompletedRepositoriesConstant, result.CompletedRepositories),
			zap.Error(migrationError),
		)
		return fmt.Errorf(mirrorCommandErrorTemplateConstant, migrationError)
	}

	logger.Info(
		migrationSummaryMessageConstant,
		zap.Strings(logFieldCompletedRepositoriesConstant, result.CompletedRepositories),
		zap.Strings(logFieldPushedRepositoriesConstant, result.PushedRepositories),
	)

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	debugEnabled := false
	if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		if logLevel, available := contextAccessor.LogLevel(command.Context()); available {
			if strings.EqualFold(logLevel, string(utils.LogLevelDebug)) {
				debugEnabled = true
			}
		}
	}

	originHost := configuration.OriginHost
	destinationHost := configuration.DestinationHost
	repositoryNames := configuration.RepositoryNames
	skipPush := configuration.SkipPush
	keepLocalMirror := configuration.KeepLocalMirror

	if command != nil {
		if command.Flags().Changed(originHostFlagNameConstant) {
			flagValue, _ := command.Flags().GetString(originHostFlagNameConstant)
			originHost = flagValue
		}
		if command.Flags().Changed(destinationHostFlagNameConstant) {
			flagValue, _ := command.Flags().GetString(destinationHostFlagNameConstant)
			destinationHost = flagValue
		}
		if command.Flags().Changed(repositoriesFlagNameConstant) {
			flagValues, _ := command.Flags().GetStringSlice(repositoriesFlagNameConstant)
			repositoryNames = flagValues
		}
		if command.Flags().Changed(skipPushFlagNameConstant) {
			flagValue, _ := command.Flags().GetBool(skipPushFlagNameConstant)
			skipPush = flagValue
		}
		if command.Flags().Changed(keepMirrorFlagNameConstant) {
			flagValue, _ := command.Flags().GetBool(keepMirrorFlagNameConstant)
			keepLocalMirror = flagValue
		}
	}

	repositoryNames = append(append([]string{}, repositoryNames...), arguments...)

	migrationOptions := MigrationOptions{
		OriginHost:         originHost,
		DestinationHost:    destinationHost,
		RepositoryNames:    repositoryNames,
		SkipPush:           skipPush,
		KeepLocalMirror:    keepLocalMirror,
		WorkspaceDirectory: builder.WorkingDirectory,
	}

	return commandOptions{debugLoggingEnabled: debugEnabled, migration: migrationOptions}, nil
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadableLogging {
		shellExecutor.RegisterCommandObserver(ui.NewConsoleCommandEventLogger(builder.resolveNarrationWriter()))
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveNarrationWriter() io.Writer {
	if builder.NarrationWriter != nil {
		return builder.NarrationWriter
	}
	return utils.NewFlushingWriter(os.Stdout)
}

func (builder *CommandBuilder) resolveFileSystem() WorkspaceFileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return OSWorkspaceFileSystem{}
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (MigrationExecutor, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}
