package mirror

import "strings"

const (
	configurationOriginHostKeySuffixConstant      = ".origin_host"
	configurationDestinationHostKeySuffixConstant = ".dest_host"
	configurationRepositoriesKeySuffixConstant    = ".repos"
	configurationSkipPushKeySuffixConstant        = ".no_push"
	configurationKeepMirrorKeySuffixConstant      = ".keep_mirror"
)

// CommandConfiguration captures persisted configuration for repository mirroring.
type CommandConfiguration struct {
	OriginHost      string   `mapstructure:"origin_host"`
	DestinationHost string   `mapstructure:"dest_host"`
	RepositoryNames []string `mapstructure:"repos"`
	SkipPush        bool     `mapstructure:"no_push"`
	KeepLocalMirror bool     `mapstructure:"keep_mirror"`
}

// DefaultCommandConfiguration returns baseline configuration values for repository mirroring.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues maps configuration keys beneath the provided prefix to their defaults.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + configurationOriginHostKeySuffixConstant:      "",
		configurationKeyPrefix + configurationDestinationHostKeySuffixConstant: "",
		configurationKeyPrefix + configurationRepositoriesKeySuffixConstant:    []string{},
		configurationKeyPrefix + configurationSkipPushKeySuffixConstant:        false,
		configurationKeyPrefix + configurationKeepMirrorKeySuffixConstant:      false,
	}
}

// Sanitize trims configured values and removes empty repository names.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.OriginHost = strings.TrimSpace(configuration.OriginHost)
	sanitized.DestinationHost = strings.TrimSpace(configuration.DestinationHost)
	sanitized.RepositoryNames = sanitizeRepositoryNames(configuration.RepositoryNames)
	return sanitized
}
