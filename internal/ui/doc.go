// Package ui renders command lifecycle events as human-readable progress
// narration for interactive migration runs.
package ui
