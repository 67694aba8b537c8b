package mirror

import (
	"fmt"
	"strings"
)

const (
	pathSeparatorConstant        = "/"
	gitDirectorySuffixConstant   = ".git"
	remoteURLTemplateConstant    = "%s%s%s%s"
	requiredValueMessageConstant = "value is required"
	invalidInputTemplateConstant = "%s: %s"
)

// InvalidInputError describes migration option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputTemplateConstant, inputError.FieldName, inputError.Message)
}

// RepositoryMirrorJob captures the derived locations for migrating one repository.
type RepositoryMirrorJob struct {
	RepositoryName  string
	OriginURL       string
	DestinationURL  string
	LocalMirrorPath string
}

// BuildMirrorJob derives clone source, push target, and local mirror path for a repository name.
//
// Host prefixes are normalized by stripping trailing path separators so that
// prefixes given with or without a trailing slash produce identical URLs.
func BuildMirrorJob(originHost string, destinationHost string, repositoryName string) RepositoryMirrorJob {
	trimmedRepositoryName := strings.TrimSpace(repositoryName)

	return RepositoryMirrorJob{
		RepositoryName:  trimmedRepositoryName,
		OriginURL:       buildRemoteURL(originHost, trimmedRepositoryName),
		DestinationURL:  buildRemoteURL(destinationHost, trimmedRepositoryName),
		LocalMirrorPath: trimmedRepositoryName + gitDirectorySuffixConstant,
	}
}

func buildRemoteURL(hostPrefix string, repositoryName string) string {
	normalizedHostPrefix := strings.TrimRight(strings.TrimSpace(hostPrefix), pathSeparatorConstant)
	return fmt.Sprintf(remoteURLTemplateConstant, normalizedHostPrefix, pathSeparatorConstant, repositoryName, gitDirectorySuffixConstant)
}
