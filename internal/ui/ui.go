package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/shared"
	"github.com/desertthunder/ytsum/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	library  *tasks.Library
	opener   shared.Opener
	width    int
	height   int
	list     list.Model
	selected models.Record
	summary  int
	loading  bool
	status   string
	failed   bool
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model over library. A nil opener falls back to [shared.OpenBrowser].
func NewModel(ctx context.Context, library *tasks.Library, opener shared.Opener) *Model {
	if opener == nil {
		opener = shared.OpenBrowser
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Video Summaries"
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return &Model{
		ctx:     ctx,
		view:    ListView,
		library: library,
		opener:  opener,
		list:    l,
		summary: models.SummaryMin,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by loading records from the remote store.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRecordsLoaded:
		m.loading = false
		return m, m.apply(msg.data.(tasks.Outcome))
	case MsgRecordDeleted:
		out := msg.data.(tasks.Outcome)
		if out.Success && m.view == DetailView {
			if _, ok := m.library.Find(m.selected.ID); !ok {
				m.view = ListView
			}
		}
		return m, m.apply(out)
	case MsgLinkOpened:
		data := msg.data.(struct {
			url string
			err error
		})
		if data.err != nil {
			m.setStatus(fmt.Sprintf("Could not open link: %v", data.err), true)
		} else {
			m.setStatus(fmt.Sprintf("Opened %s", data.url), false)
		}
	}
	return m, nil
}

// apply shows the outcome message and replaces the list items with its snapshot.
func (m *Model) apply(out tasks.Outcome) tea.Cmd {
	m.setStatus(out.Message, !out.Success)
	return m.list.SetItems(recordItems(out.Records))
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.list.SelectedItem().(recordItem); ok {
			m.selected = item.record
			m.summary = models.SummaryMin
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.list.SelectedItem().(recordItem); ok {
			m.setStatus(fmt.Sprintf("Deleting %q...", item.record.Title), false)
			return m, m.remove(item.record)
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.setStatus("", false)
		return m, m.load()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.summary):
		m.summary = int(msg.String()[0] - '0')
		return m, nil
	case key.Matches(msg, m.keys.open):
		if m.selected.Link == "" {
			m.setStatus("No link available", true)
			return m, nil
		}
		return m, m.openLink(m.selected.Link)
	}
	return m, nil
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		return recordsLoadedMsg(m.library.Load(m.ctx))
	}
}

func (m *Model) remove(record models.Record) tea.Cmd {
	return func() tea.Msg {
		return recordDeletedMsg(m.library.Delete(m.ctx, record))
	}
}

func (m *Model) openLink(url string) tea.Cmd {
	opener := m.opener
	return func() tea.Msg {
		return linkOpenedMsg(url, opener(url))
	}
}

func (m *Model) renderStatus() string {
	switch {
	case m.loading:
		return styles.warn.Render("Loading database...")
	case m.status == "":
		return ""
	case m.failed:
		return styles.err.Render(m.status)
	default:
		return styles.ok.Render(m.status)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), m.renderStatus(), helpView)
}

func (m *Model) renderDetail() string {
	r := m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(r.Title))
	b.WriteString("\n")
	b.WriteString(styles.byline.Render("By: " + r.Author))
	b.WriteString("\n\n")
	b.WriteString(styles.header.Render(fmt.Sprintf("Summary %d/%d", m.summary, models.SummaryMax)))
	b.WriteString("\n\n")

	body := r.Summary(m.summary)
	if m.width > 8 {
		body = lipgloss.NewStyle().Width(m.width - 4).Render(body)
	}
	b.WriteString(body)

	if r.Link != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render(r.Link))
	}
	if s := m.renderStatus(); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}

	helpKeys := []key.Binding{m.keys.summary, m.keys.open, m.keys.back, m.keys.quit}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
