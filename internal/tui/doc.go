// Package tui provides the terminal surface of restack.
//
// It handles:
//   - Structured logging and status reporting (Splog)
//   - Terminal styling and colors (using lipgloss and termenv)
//   - Interactive confirmation prompts (using survey)
//   - Text and list prompts (using bubbletea and bubbles)
package tui
