package mirror_test

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/repomirror/repomirror/internal/mirror"
)

const (
	commandFlagsOverrideConfigCaseNameConstant = "flags_override_configuration"
	commandConfigurationOnlyCaseNameConstant   = "configuration_supplies_defaults"
	commandPositionalNamesCaseNameConstant     = "positional_arguments_extend_repositories"
)

type capturingMigrationExecutor struct {
	capturedOptions mirror.MigrationOptions
	executionError  error
}

func (executor *capturingMigrationExecutor) Execute(_ context.Context, options mirror.MigrationOptions) (mirror.MigrationResult, error) {
	executor.capturedOptions = options
	if executor.executionError != nil {
		return mirror.MigrationResult{}, executor.executionError
	}
	return mirror.MigrationResult{CompletedRepositories: options.RepositoryNames}, nil
}

func buildTestCommand(testInstance *testing.T, executor *capturingMigrationExecutor, configuration mirror.CommandConfiguration) *cobra.Command {
	builder := &mirror.CommandBuilder{
		ServiceProvider: func(mirror.ServiceDependencies) (mirror.MigrationExecutor, error) {
			return executor, nil
		},
		ConfigurationProvider: func() mirror.CommandConfiguration {
			return configuration
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetContext(context.Background())
	return command
}

func TestMirrorCommandResolvesOptions(testInstance *testing.T) {
	testCases := []struct {
		name            string
		configuration   mirror.CommandConfiguration
		arguments       []string
		expectedOptions mirror.MigrationOptions
	}{
		{
			name: commandFlagsOverrideConfigCaseNameConstant,
			configuration: mirror.CommandConfiguration{
				OriginHost:      "https://configured-old.example.com",
				DestinationHost: "https://configured-new.example.com",
				RepositoryNames: []string{"configured"},
			},
			arguments: []string{
				"--origin-host", "https://old.example.com",
				"--dest-host", "https://new.example.com",
				"--repos", "alpha,beta",
				"--no-push",
			},
			expectedOptions: mirror.MigrationOptions{
				OriginHost:      "https://old.example.com",
				DestinationHost: "https://new.example.com",
				RepositoryNames: []string{"alpha", "beta"},
				SkipPush:        true,
			},
		},
		{
			name: commandConfigurationOnlyCaseNameConstant,
			configuration: mirror.CommandConfiguration{
				OriginHost:      "https://configured-old.example.com",
				DestinationHost: "https://configured-new.example.com",
				RepositoryNames: []string{"configured"},
				KeepLocalMirror: true,
			},
			arguments: []string{},
			expectedOptions: mirror.MigrationOptions{
				OriginHost:      "https://configured-old.example.com",
				DestinationHost: "https://configured-new.example.com",
				RepositoryNames: []string{"configured"},
				KeepLocalMirror: true,
			},
		},
		{
			name: commandPositionalNamesCaseNameConstant,
			configuration: mirror.CommandConfiguration{
				OriginHost:      "https://old.example.com",
				DestinationHost: "https://new.example.com",
			},
			arguments: []string{"--repos", "alpha", "beta", "gamma"},
			expectedOptions: mirror.MigrationOptions{
				OriginHost:      "https://old.example.com",
				DestinationHost: "https://new.example.com",
				RepositoryNames: []string{"alpha", "beta", "gamma"},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			executor := &capturingMigrationExecutor{}
			command := buildTestCommand(subtestInstance, executor, testCase.configuration)
			command.SetArgs(testCase.arguments)

			executionError := command.Execute()

			require.NoError(subtestInstance, executionError)
			require.Equal(subtestInstance, testCase.expectedOptions, executor.capturedOptions)
		})
	}
}

func TestMirrorCommandReportsValidationFailures(testInstance *testing.T) {
	builder := &mirror.CommandBuilder{
		GitExecutor: newScriptedGitExecutor(),
		FileSystem:  newFakeWorkspaceFileSystem(),
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetContext(context.Background())
	command.SetArgs([]string{"--repos", "tool"})

	executionError := command.Execute()

	require.Error(testInstance, executionError)
	var inputError mirror.InvalidInputError
	require.ErrorAs(testInstance, executionError, &inputError)
	require.Equal(testInstance, "origin_host", inputError.FieldName)
}

func TestMirrorCommandWrapsServiceFailures(testInstance *testing.T) {
	executor := &capturingMigrationExecutor{
		executionError: mirror.InvalidInputError{FieldName: "repos", Message: "value is required"},
	}
	command := buildTestCommand(testInstance, executor, mirror.CommandConfiguration{
		OriginHost:      "https://old.example.com",
		DestinationHost: "https://new.example.com",
		RepositoryNames: []string{"tool"},
	})
	command.SetArgs([]string{})

	executionError := command.Execute()

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "repository migration failed")
}
