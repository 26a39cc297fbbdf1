// Package ui provides semantic text formatting for CLI output.
//
// Formatters render colorized text when the terminal supports it and fall
// back to plain decorations (backticks, quotes, parentheses) when NO_COLOR
// is set or color is unavailable.
//
//	ui.Code.Sprint("ripenv init")             // Commands
//	ui.Path.Sprint("ripenv.manifest.json")    // File paths
//	ui.Highlight.Sprint("alice@example.com")  // User values
//	ui.Muted.Sprint("3f2a9c01")               // Secondary text
//
// Failure and Done compose the final message printed after a spinner stops.
package ui
