// Package mirror implements the repository migration workflow that clones a
// full mirror of each source repository, retargets its push remote at the
// destination host, publishes the mirror, and cleans up the temporary clone.
package mirror
