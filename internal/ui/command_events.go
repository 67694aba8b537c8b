package ui

import (
	"fmt"
	"io"

	"github.com/repomirror/repomirror/internal/execshell"
)

// ConsoleCommandEventLogger renders command lifecycle events as progress
// narration on the provided writer, typically standard output wrapped in a
// utils.FlushingWriter so each step appears as soon as it happens.
type ConsoleCommandEventLogger struct {
	writer    io.Writer
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger writing to the supplied writer.
func NewConsoleCommandEventLogger(writer io.Writer) *ConsoleCommandEventLogger {
	return &ConsoleCommandEventLogger{writer: writer, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by narrating command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.writeLine(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by narrating command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.writeLine(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.writeLine(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by narrating unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventLogger.writeLine(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) writeLine(message string) {
	if eventLogger == nil || eventLogger.writer == nil {
		return
	}
	fmt.Fprintln(eventLogger.writer, message)
}
