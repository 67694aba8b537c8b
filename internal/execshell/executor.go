package execshell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const (
	gitCommandNameConstant                        = "git"
	loggerNotConfiguredMessageConstant            = "logger not configured"
	commandRunnerNotConfiguredMessageConstant     = "command runner not configured"
	commandFailedMessageTemplateConstant          = "command %s exited with code %d"
	capturedStandardOutputSectionTemplateConstant = "\n--- stdout ---\n%s"
	capturedStandardErrorSectionTemplateConstant  = "\n--- stderr ---\n%s"
	toolNotFoundMessageTemplateConstant           = "executable %s not found on PATH: %s"
	commandExecutionFailedTemplateConstant        = "command %s failed: %s"
	logFieldCommandNameConstant                   = "command"
	logFieldCommandArgumentsConstant              = "arguments"
	logFieldWorkingDirectoryConstant              = "working_directory"
	logFieldExitCodeConstant                      = "exit_code"
	logFieldStandardErrorConstant                 = "stderr"
	commandStartedLogMessageConstant              = "external command started"
	commandCompletedLogMessageConstant            = "external command completed"
	commandFailedLogMessageConstant               = "external command failed"
)

// CommandName identifies a supported external executable.
type CommandName string

// CommandGit is the version-control tool every migration step shells out to.
const CommandGit CommandName = CommandName(gitCommandNameConstant)

// CommandDetails describes a single invocation of an external executable.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a CommandName with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a finished command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run a shell command to completion.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// Sentinel errors reported during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError indicates the external tool ran and returned a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command together with its captured output streams.
func (failure CommandFailedError) Error() string {
	messageBuilder := strings.Builder{}
	messageBuilder.WriteString(fmt.Sprintf(commandFailedMessageTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode))
	if len(strings.TrimSpace(failure.Result.StandardOutput)) > 0 {
		messageBuilder.WriteString(fmt.Sprintf(capturedStandardOutputSectionTemplateConstant, failure.Result.StandardOutput))
	}
	if len(strings.TrimSpace(failure.Result.StandardError)) > 0 {
		messageBuilder.WriteString(fmt.Sprintf(capturedStandardErrorSectionTemplateConstant, failure.Result.StandardError))
	}
	return messageBuilder.String()
}

// ToolNotFoundError indicates the external executable is missing from the execution environment.
type ToolNotFoundError struct {
	Command ShellCommand
	Cause   error
}

// Error names the missing executable.
func (failure ToolNotFoundError) Error() string {
	return fmt.Sprintf(toolNotFoundMessageTemplateConstant, failure.Command.Name, describeCause(failure.Cause))
}

// Unwrap exposes the underlying lookup failure.
func (failure ToolNotFoundError) Unwrap() error {
	return failure.Cause
}

// CommandExecutionError indicates the command could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, describeCommand(failure.Command), describeCause(failure.Cause))
}

// Unwrap exposes the underlying execution failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs external commands through a CommandRunner while logging lifecycle events.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	messageFormatter     CommandMessageFormatter
	humanReadableLogging bool
	commandObservers     []CommandEventObserver
}

// NewShellExecutor validates collaborators and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		messageFormatter:     CommandMessageFormatter{},
		humanReadableLogging: humanReadableLogging,
	}

	return executor, nil
}

// RegisterCommandObserver subscribes an observer to command lifecycle events.
func (executor *ShellExecutor) RegisterCommandObserver(observer CommandEventObserver) {
	if observer == nil {
		return
	}
	executor.commandObservers = append(executor.commandObservers, observer)
}

// ExecuteGit runs the git executable with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs an arbitrary command, logging its start and completion.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logCommandStarted(command)
	executor.notifyCommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		if errors.Is(runError, exec.ErrNotFound) {
			notFoundFailure := ToolNotFoundError{Command: command, Cause: runError}
			executor.logCommandFailure(command, notFoundFailure)
			executor.notifyCommandExecutionFailed(command, notFoundFailure)
			return ExecutionResult{}, notFoundFailure
		}

		executionFailure := CommandExecutionError{Command: command, Cause: runError}
		executor.logCommandFailure(command, executionFailure)
		executor.notifyCommandExecutionFailed(command, executionFailure)
		return ExecutionResult{}, executionFailure
	}

	if executionResult.ExitCode != 0 {
		commandFailure := CommandFailedError{Command: command, Result: executionResult}
		executor.logCommandFailed(command, executionResult)
		executor.notifyCommandCompleted(command, executionResult)
		return executionResult, commandFailure
	}

	executor.logCommandCompleted(command, executionResult)
	executor.notifyCommandCompleted(command, executionResult)
	return executionResult, nil
}

func (executor *ShellExecutor) notifyCommandStarted(command ShellCommand) {
	for _, observer := range executor.commandObservers {
		observer.CommandStarted(command)
	}
}

func (executor *ShellExecutor) notifyCommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range executor.commandObservers {
		observer.CommandCompleted(command, result)
	}
}

func (executor *ShellExecutor) notifyCommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range executor.commandObservers {
		observer.CommandExecutionFailed(command, failure)
	}
}

func (executor *ShellExecutor) logCommandStarted(command ShellCommand) {
	if executor.humanReadableLogging {
		executor.logger.Info(executor.messageFormatter.BuildStartedMessage(command))
		return
	}
	executor.logger.Info(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
}

func (executor *ShellExecutor) logCommandCompleted(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command))
		return
	}
	executor.logger.Info(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
	)
}

func (executor *ShellExecutor) logCommandFailed(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		executor.logger.Error(executor.messageFormatter.BuildFailureMessage(command, result))
		return
	}
	executor.logger.Error(
		commandFailedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, result.StandardError),
	)
}

func (executor *ShellExecutor) logCommandFailure(command ShellCommand, failure error) {
	if executor.humanReadableLogging {
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, failure))
		return
	}
	executor.logger.Error(
		commandFailedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.Error(failure),
	)
}

func describeCommand(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, " ")
}

func describeCause(cause error) string {
	if cause == nil {
		return "unknown error"
	}
	return cause.Error()
}
