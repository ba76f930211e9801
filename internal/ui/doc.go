// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [RunListView] : Browse recent runs
//  2. [LoadingView] : Progress while a summary is built
//  3. [SummaryView] : Scrollable summary, copyable to the clipboard
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the SummaryEngine.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, c, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
