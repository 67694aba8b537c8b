package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitCloneSubcommandNameConstant    = "clone"
	gitRemoteSubcommandNameConstant   = "remote"
	gitRemoteSetURLSubcommandConstant = "set-url"
	gitPushSubcommandNameConstant     = "push"
	gitMirrorFlagConstant             = "--mirror"
	gitPushURLFlagConstant            = "--push"
	defaultPushRemoteLabelConstant    = "the configured push remote"
)

const (
	gitMirrorCloneStartTemplateConstant                 = "Creating mirror clone of %s in %s"
	gitMirrorCloneSuccessTemplateConstant               = "Created mirror clone of %s in %s"
	gitMirrorCloneFailureTemplateConstant               = "Failed to create mirror clone of %s in %s (exit code %d%s)"
	gitMirrorCloneExecutionFailureTemplateConstant      = "Unable to create mirror clone of %s in %s: %s"
	gitCloneStartTemplateConstant                       = "Cloning %s in %s"
	gitCloneSuccessTemplateConstant                     = "Cloned %s in %s"
	gitCloneFailureTemplateConstant                     = "Failed to clone %s in %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant            = "Unable to clone %s in %s: %s"
	gitPushRemoteUpdateStartTemplateConstant            = "Retargeting %s push remote to %s in %s"
	gitPushRemoteUpdateSuccessTemplateConstant          = "%s push remote now points to %s in %s"
	gitPushRemoteUpdateFailureTemplateConstant          = "Failed to retarget %s push remote to %s in %s (exit code %d%s)"
	gitPushRemoteUpdateExecutionFailureTemplateConstant = "Unable to retarget %s push remote to %s in %s: %s"
	gitRemoteUpdateStartTemplateConstant                = "Updating %s remote to %s in %s"
	gitRemoteUpdateSuccessTemplateConstant              = "%s remote now points to %s in %s"
	gitRemoteUpdateFailureTemplateConstant              = "Failed to update %s remote to %s in %s (exit code %d%s)"
	gitRemoteUpdateExecutionFailureTemplateConstant     = "Unable to update %s remote to %s in %s: %s"
	gitMirrorPushStartTemplateConstant                  = "Publishing mirror to %s from %s"
	gitMirrorPushSuccessTemplateConstant                = "Published mirror to %s from %s"
	gitMirrorPushFailureTemplateConstant                = "Failed to publish mirror to %s from %s (exit code %d%s)"
	gitMirrorPushExecutionFailureTemplateConstant       = "Unable to publish mirror to %s from %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeGitCloneMessage(command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	sourceURL := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
	isMirrorClone := containsArgument(arguments, gitMirrorFlagConstant)

	startTemplate := gitCloneStartTemplateConstant
	successTemplate := gitCloneSuccessTemplateConstant
	failureTemplate := gitCloneFailureTemplateConstant
	executionFailureTemplate := gitCloneExecutionFailureTemplateConstant
	if isMirrorClone {
		startTemplate = gitMirrorCloneStartTemplateConstant
		successTemplate = gitMirrorCloneSuccessTemplateConstant
		failureTemplate = gitMirrorCloneFailureTemplateConstant
		executionFailureTemplate = gitMirrorCloneExecutionFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, sourceURL, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, sourceURL, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, sourceURL, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, sourceURL, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[1]) != gitRemoteSetURLSubcommandConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	retargetsPushURL := containsArgument(arguments, gitPushURLFlagConstant)
	remainingArguments := formatter.collectNonFlagArguments(arguments[2:])
	remoteName := fallbackUnknownValueLabelConstant
	targetURL := fallbackUnknownValueLabelConstant
	if len(remainingArguments) > 0 {
		remoteName = remainingArguments[0]
	}
	if len(remainingArguments) > 1 {
		targetURL = remainingArguments[1]
	}

	startTemplate := gitRemoteUpdateStartTemplateConstant
	successTemplate := gitRemoteUpdateSuccessTemplateConstant
	failureTemplate := gitRemoteUpdateFailureTemplateConstant
	executionFailureTemplate := gitRemoteUpdateExecutionFailureTemplateConstant
	if retargetsPushURL {
		startTemplate = gitPushRemoteUpdateStartTemplateConstant
		successTemplate = gitPushRemoteUpdateSuccessTemplateConstant
		failureTemplate = gitPushRemoteUpdateFailureTemplateConstant
		executionFailureTemplate = gitPushRemoteUpdateExecutionFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, remoteName, targetURL, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, remoteName, targetURL, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, remoteName, targetURL, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, remoteName, targetURL, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !containsArgument(arguments, gitMirrorFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteLabel := strings.TrimSpace(formatter.extractFirstNonFlagArgument(arguments[1:]))
	if len(remoteLabel) == 0 {
		remoteLabel = defaultPushRemoteLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMirrorPushStartTemplateConstant, remoteLabel, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitMirrorPushSuccessTemplateConstant, remoteLabel, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitMirrorPushFailureTemplateConstant, remoteLabel, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitMirrorPushExecutionFailureTemplateConstant, remoteLabel, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) collectNonFlagArguments(arguments []string) []string {
	collected := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		collected = append(collected, trimmed)
	}
	return collected
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
