// Package ui holds the color themes shared by the presentation layers:
// ANSI escape codes for plain terminal output and lipgloss styles for the
// verdict badges.
package ui
