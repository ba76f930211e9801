package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/stride/internal/models"
	"github.com/desertthunder/stride/internal/shared"
	"github.com/desertthunder/stride/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunListView ViewState = iota
	LoadingView
	SummaryView
)

var copyToClipboard = clipboard.WriteAll

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Engine
	logger       *log.Logger
	width        int
	height       int
	runList      list.Model
	runs         []models.ActivitySummaryRef
	selected     models.ActivitySummaryRef
	summary      *tasks.SummaryResult
	viewport     viewport.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Engine, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	runList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	runList.Title = "Recent Runs"

	return &Model{
		ctx:      ctx,
		view:     RunListView,
		engine:   engine,
		logger:   logger,
		runList:  runList,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching recent runs.
func (m *Model) Init() tea.Cmd {
	return m.fetchRuns()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.runList.SetSize(max(msg.Width-4, 0), max(msg.Height-6, 0))
		m.viewport.Width = max(msg.Width-4, 0)
		m.viewport.Height = max(msg.Height-8, 0)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RunListView:
			return m.handleRunListKeys(msg)
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case SummaryView:
			return m.handleSummaryKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRunsFetched:
		data := msg.data.(runsFetched)
		if data.err != nil {
			m.logger.Error("failed to list runs", "error", data.err)
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.runs = data.runs
		items := make([]list.Item, len(data.runs))
		for i, run := range data.runs {
			items[i] = runItem{run: run}
		}
		return m, m.runList.SetItems(items)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgSummaryFetched:
		data := msg.data.(summaryFetched)
		m.progressChan = nil
		m.doneChan = nil
		if data.err != nil {
			m.logger.Warn("summary failed", "id", m.selected.ID, "error", data.err)
			m.err = data.err
			m.view = RunListView
			return m, nil
		}
		m.err = nil
		m.summary = data.result
		m.viewport.SetContent(data.result.Text)
		m.viewport.GotoTop()
		m.view = SummaryView
		return m, nil

	case MsgCopied:
		if err, ok := msg.data.(error); ok && err != nil {
			m.logger.Error("clipboard copy failed", "error", err)
			m.status = styles.err.Render(fmt.Sprintf("Copy failed: %v", err))
		} else {
			m.status = styles.ok.Render("✓ Copied to clipboard")
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunListView:
		return m.renderRunList()
	case LoadingView:
		return m.renderLoading()
	case SummaryView:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) handleRunListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.runList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.runList, cmd = m.runList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.err = nil
		return m, m.fetchRuns()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.runList.SelectedItem().(runItem); ok {
			m.selected = item.run
			m.err = nil
			m.status = ""
			m.view = LoadingView
			return m, m.startSummary(fmt.Sprintf("%d", item.run.ID))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.runList, cmd = m.runList.Update(msg)
	return m, cmd
}

func (m *Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = RunListView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.copy):
		return m, m.copySummary()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case RunListView:
		m.runList, cmd = m.runList.Update(msg)
	case SummaryView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchRuns() tea.Cmd {
	return func() tea.Msg {
		runs, err := m.engine.Runs(m.ctx, nil)
		return runsFetchedMsg(runs, err)
	}
}

func (m *Model) startSummary(activityID string) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		result, err := m.engine.Summary(m.ctx, activityID, progress)
		close(progress)
		done <- summaryFetchedMsg(result, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	if done == nil {
		return nil
	}

	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) copySummary() tea.Cmd {
	if m.summary == nil {
		return nil
	}
	text := m.summary.Text
	return func() tea.Msg {
		return copiedMsg(copyToClipboard(text))
	}
}

func (m *Model) renderRunList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var errView string
	if m.err != nil {
		errView = "\n" + styles.err.Render(shared.UserMessage(m.err)) + "\n"
	}

	return fmt.Sprintf("%s\n%s\n%s", m.runList.View(), errView, helpView)
}

func (m *Model) renderLoading() string {
	title := styles.title.Render(fmt.Sprintf("Summarizing '%s'", m.selected.Name))

	message := m.progress.Message
	if message == "" {
		message = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s", title, styles.help.Render(message))
}

func (m *Model) renderSummary() string {
	name := m.selected.Name
	if m.summary != nil && m.summary.Detail != nil && m.summary.Detail.Name != "" {
		name = m.summary.Detail.Name
	}
	title := styles.title.Render(name)

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.copy, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n%s", title, styles.summary.Render(m.viewport.View()), m.status, helpView)
}
