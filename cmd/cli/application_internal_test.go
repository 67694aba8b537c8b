package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	helpFlagConstant              = "--help"
	mirrorCommandUseConstant      = "mirror"
	rootHelpApplicationNameClause = "repo-mirror"
)

func TestApplicationRootHelpListsMirrorCommand(testInstance *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{helpFlagConstant})

	executionError := application.rootCommand.Execute()

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, outputBuffer.String(), rootHelpApplicationNameClause)
	require.Contains(testInstance, outputBuffer.String(), mirrorCommandUseConstant)
}

func TestApplicationFlagOverridesReplaceConfiguredLogging(testInstance *testing.T) {
	application := NewApplication()

	parseError := application.rootCommand.PersistentFlags().Parse([]string{"--log-level", "debug", "--log-format", "console"})
	require.NoError(testInstance, parseError)

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}
