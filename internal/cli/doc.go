// Package cli renders a test run in the terminal: the spinner and progress
// bar, the comparison table, the verdict block and the saved result file.
//
// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write to the filesystem.
package cli
