package mirror

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/repomirror/repomirror/internal/execshell"
)

const (
	originHostFieldNameConstant               = "origin_host"
	destinationHostFieldNameConstant          = "dest_host"
	repositoryNamesFieldNameConstant          = "repos"
	gitExecutorMissingMessageConstant         = "git executor not configured"
	workspaceFileSystemMissingMessageConstant = "workspace filesystem not configured"
	gitCloneSubcommandConstant                = "clone"
	gitMirrorFlagConstant                     = "--mirror"
	gitRemoteSubcommandConstant               = "remote"
	gitSetURLSubcommandConstant               = "set-url"
	gitPushURLFlagConstant                    = "--push"
	gitPushSubcommandConstant                 = "push"
	originRemoteNameConstant                  = "origin"
	precleanErrorTemplateConstant             = "unable to remove leftover mirror directory %s: %w"
	cloneErrorTemplateConstant                = "mirror clone failed for %s: %w"
	retargetErrorTemplateConstant             = "push remote retarget failed for %s: %w"
	publishErrorTemplateConstant              = "mirror push failed for %s: %w"
	cleanupErrorTemplateConstant              = "unable to remove mirror directory %s: %w"
	logMessageProcessingRepositoryConstant    = "Processing repository"
	logMessageRemovingLeftoverMirrorConstant  = "Removing leftover mirror directory"
	logMessageSkippingPublishConstant         = "Skipping mirror push as requested"
	logMessageKeepingLocalMirrorConstant      = "Keeping local mirror directory"
	logMessageRepositoryMigratedConstant      = "Repository migration completed"
	logFieldRepositoryNameConstant            = "repository"
	logFieldOriginURLConstant                 = "origin_url"
	logFieldDestinationURLConstant            = "destination_url"
	logFieldMirrorPathConstant                = "mirror_path"
	logFieldPushedConstant                    = "pushed"
)

// GitExecutor runs git commands on behalf of the migration service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies describes required collaborators for repository migration.
type ServiceDependencies struct {
	Logger      *zap.Logger
	GitExecutor GitExecutor
	FileSystem  WorkspaceFileSystem
}

// MigrationOptions configures one migration run.
type MigrationOptions struct {
	OriginHost         string
	DestinationHost    string
	RepositoryNames    []string
	SkipPush           bool
	KeepLocalMirror    bool
	WorkspaceDirectory string
}

// MigrationResult captures the observable outcomes of a migration run.
type MigrationResult struct {
	CompletedRepositories []string
	PushedRepositories    []string
}

// Service migrates repositories sequentially, aborting on the first failure.
type Service struct {
	logger      *zap.Logger
	gitExecutor GitExecutor
	fileSystem  WorkspaceFileSystem
}

var (
	errGitExecutorMissing         = errors.New(gitExecutorMissingMessageConstant)
	errWorkspaceFileSystemMissing = errors.New(workspaceFileSystemMissingMessageConstant)
)

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, errGitExecutorMissing
	}
	if dependencies.FileSystem == nil {
		return nil, errWorkspaceFileSystemMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &Service{
		logger:      logger,
		gitExecutor: dependencies.GitExecutor,
		fileSystem:  dependencies.FileSystem,
	}

	return service, nil
}

// Execute migrates every requested repository in input order.
//
// The first failure aborts the run: remaining repositories stay unattempted
// and the in-flight local mirror is left on disk for inspection.
func (service *Service) Execute(executionContext context.Context, options MigrationOptions) (MigrationResult, error) {
	validatedOptions, validationError := validateOptions(options)
	if validationError != nil {
		return MigrationResult{}, validationError
	}

	migrationResult := MigrationResult{}
	for _, repositoryName := range validatedOptions.RepositoryNames {
		mirrorJob := BuildMirrorJob(validatedOptions.OriginHost, validatedOptions.DestinationHost, repositoryName)

		migrationError := service.migrateRepository(executionContext, validatedOptions, mirrorJob)
		if migrationError != nil {
			return migrationResult, migrationError
		}

		migrationResult.CompletedRepositories = append(migrationResult.CompletedRepositories, mirrorJob.RepositoryName)
		if !validatedOptions.SkipPush {
			migrationResult.PushedRepositories = append(migrationResult.PushedRepositories, mirrorJob.RepositoryName)
		}
	}

	return migrationResult, nil
}

func (service *Service) migrateRepository(executionContext context.Context, options MigrationOptions, mirrorJob RepositoryMirrorJob) error {
	localMirrorPath := mirrorJob.LocalMirrorPath
	if len(options.WorkspaceDirectory) > 0 {
		localMirrorPath = filepath.Join(options.WorkspaceDirectory, mirrorJob.LocalMirrorPath)
	}

	service.logger.Info(
		logMessageProcessingRepositoryConstant,
		zap.String(logFieldRepositoryNameConstant, mirrorJob.RepositoryName),
		zap.String(logFieldOriginURLConstant, mirrorJob.OriginURL),
		zap.String(logFieldDestinationURLConstant, mirrorJob.DestinationURL),
	)

	if precleanError := service.removeLeftoverMirror(localMirrorPath); precleanError != nil {
		return precleanError
	}

	cloneDetails := execshell.CommandDetails{
		Arguments:        []string{gitCloneSubcommandConstant, gitMirrorFlagConstant, mirrorJob.OriginURL, mirrorJob.LocalMirrorPath},
		WorkingDirectory: options.WorkspaceDirectory,
	}
	if _, cloneError := service.gitExecutor.ExecuteGit(executionContext, cloneDetails); cloneError != nil {
		return fmt.Errorf(cloneErrorTemplateConstant, mirrorJob.RepositoryName, cloneError)
	}

	retargetDetails := execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitSetURLSubcommandConstant, gitPushURLFlagConstant, originRemoteNameConstant, mirrorJob.DestinationURL},
		WorkingDirectory: localMirrorPath,
	}
	if _, retargetError := service.gitExecutor.ExecuteGit(executionContext, retargetDetails); retargetError != nil {
		return fmt.Errorf(retargetErrorTemplateConstant, mirrorJob.RepositoryName, retargetError)
	}

	if options.SkipPush {
		service.logger.Info(
			logMessageSkippingPublishConstant,
			zap.String(logFieldRepositoryNameConstant, mirrorJob.RepositoryName),
		)
	} else {
		pushDetails := execshell.CommandDetails{
			Arguments:        []string{gitPushSubcommandConstant, gitMirrorFlagConstant},
			WorkingDirectory: localMirrorPath,
		}
		if _, pushError := service.gitExecutor.ExecuteGit(executionContext, pushDetails); pushError != nil {
			return fmt.Errorf(publishErrorTemplateConstant, mirrorJob.RepositoryName, pushError)
		}
	}

	if options.KeepLocalMirror {
		service.logger.Info(
			logMessageKeepingLocalMirrorConstant,
			zap.String(logFieldRepositoryNameConstant, mirrorJob.RepositoryName),
			zap.String(logFieldMirrorPathConstant, localMirrorPath),
		)
	} else {
		if removalError := service.fileSystem.RemoveAll(localMirrorPath); removalError != nil {
			return fmt.Errorf(cleanupErrorTemplateConstant, localMirrorPath, removalError)
		}
	}

	service.logger.Info(
		logMessageRepositoryMigratedConstant,
		zap.String(logFieldRepositoryNameConstant, mirrorJob.RepositoryName),
		zap.Bool(logFieldPushedConstant, !options.SkipPush),
	)

	return nil
}

func (service *Service) removeLeftoverMirror(localMirrorPath string) error {
	if _, statError := service.fileSystem.Stat(localMirrorPath); statError != nil {
		return nil
	}

	service.logger.Info(
		logMessageRemovingLeftoverMirrorConstant,
		zap.String(logFieldMirrorPathConstant, localMirrorPath),
	)

	if removalError := service.fileSystem.RemoveAll(localMirrorPath); removalError != nil {
		return fmt.Errorf(precleanErrorTemplateConstant, localMirrorPath, removalError)
	}

	return nil
}

func validateOptions(options MigrationOptions) (MigrationOptions, error) {
	validated := options
	validated.OriginHost = strings.TrimSpace(options.OriginHost)
	validated.DestinationHost = strings.TrimSpace(options.DestinationHost)
	validated.RepositoryNames = sanitizeRepositoryNames(options.RepositoryNames)

	if len(validated.OriginHost) == 0 {
		return MigrationOptions{}, InvalidInputError{FieldName: originHostFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(validated.DestinationHost) == 0 {
		return MigrationOptions{}, InvalidInputError{FieldName: destinationHostFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(validated.RepositoryNames) == 0 {
		return MigrationOptions{}, InvalidInputError{FieldName: repositoryNamesFieldNameConstant, Message: requiredValueMessageConstant}
	}

	return validated, nil
}

func sanitizeRepositoryNames(repositoryNames []string) []string {
	sanitizedNames := make([]string, 0, len(repositoryNames))
	for _, repositoryName := range repositoryNames {
		trimmedName := strings.TrimSpace(repositoryName)
		if len(trimmedName) == 0 {
			continue
		}
		sanitizedNames = append(sanitizedNames, trimmedName)
	}
	return sanitizedNames
}
