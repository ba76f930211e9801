package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/stride/internal/models"
	"github.com/desertthunder/stride/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRunsFetched MsgKind = iota
	MsgProgressUpdate
	MsgSummaryFetched
	MsgCopied
)

type runsFetched struct {
	runs []models.ActivitySummaryRef
	err  error
}

type summaryFetched struct {
	result *tasks.SummaryResult
	err    error
}

// runsFetchedMsg is the constructor for [MsgRunsFetched]
func runsFetchedMsg(runs []models.ActivitySummaryRef, err error) Msg {
	return Msg{kind: MsgRunsFetched, data: runsFetched{runs, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// summaryFetchedMsg is the constructor for [MsgSummaryFetched]
func summaryFetchedMsg(result *tasks.SummaryResult, err error) Msg {
	return Msg{kind: MsgSummaryFetched, data: summaryFetched{result, err}}
}

// copiedMsg is the constructor for [MsgCopied]; err is nil on success.
func copiedMsg(err error) Msg {
	return Msg{kind: MsgCopied, data: err}
}
