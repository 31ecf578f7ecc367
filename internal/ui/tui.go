package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/posts/internal/model"
	"github.com/idilsaglam/posts/internal/viewmodel"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// StateSource is the observable the interactive list renders.
// *viewmodel.ViewModel satisfies it.
type StateSource interface {
	Subscribe() (<-chan viewmodel.State, func())
}

// stateMsg carries a published view model state into the update loop.
type stateMsg viewmodel.State

// postItem adapts model.Post to bubbles/list.Item
type postItem struct {
	post model.Post
}

func (i postItem) FilterValue() string { return i.post.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(postItem)
	if !ok {
		return
	}
	id := mutedStyle.Render(fmt.Sprintf("%3d", it.post.ID))
	title := truncate(it.post.Title, max(m.Width()-8, 10))

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		title = accentStyle.Render(title)
	}
	fmt.Fprintln(w, prefix+id+" "+title)
}

var detailsBind = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details"))

// Model is the Bubble Tea model rendering a list of post titles.
type Model struct {
	list    list.Model
	spinner spinner.Model

	states      <-chan viewmodel.State
	unsubscribe func()

	status viewmodel.Status
	err    error

	showDetail    bool
	width, height int
}

// NewModel subscribes to src; every published state replaces the list.
func NewModel(src StateSource) Model {
	l := list.New(nil, itemDelegate{}, DefaultWidth-4, DefaultHeight-4)
	l.Title = "Posts"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("post", "posts")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{detailsBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{detailsBind} }

	states, unsubscribe := src.Subscribe()
	return Model{
		list:        l,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		states:      states,
		unsubscribe: unsubscribe,
		status:      viewmodel.StatusLoading,
		width:       DefaultWidth,
		height:      DefaultHeight,
	}
}

func waitForState(ch <-chan viewmodel.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ch)
	}
}

// Init and Update and View implement Bubble Tea's Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.states))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case stateMsg:
		return m.applyState(viewmodel.State(msg))

	case spinner.TickMsg:
		if m.status != viewmodel.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m.quit()
		case "esc":
			if m.showDetail {
				m.showDetail = false
				m.resize()
				return m, nil
			}
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			return m.quit()
		case "enter":
			if _, ok := m.list.SelectedItem().(postItem); ok {
				m.showDetail = !m.showDetail
				m.resize()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) applyState(s viewmodel.State) (tea.Model, tea.Cmd) {
	m.status, m.err = s.Status, s.Err

	items := make([]list.Item, 0, len(s.Posts))
	for _, p := range s.Posts {
		items = append(items, postItem{post: p})
	}
	cmds := []tea.Cmd{m.list.SetItems(items)}
	m.list.Title = fmt.Sprintf("Posts  Total %d", len(s.Posts))
	m.resize()

	// The view model publishes once more after loading; stop listening then.
	if s.Status == viewmodel.StatusLoading {
		cmds = append(cmds, waitForState(m.states))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

func (m *Model) resize() {
	h := m.height - 4
	if m.status != viewmodel.StatusReady {
		h -= 2
	}
	if m.showDetail {
		h -= detailHeight
	}
	m.list.SetSize(max(m.width-4, 10), max(h, 3))
}

const detailHeight = 8

// Status returns the fetch status last rendered.
func (m Model) Status() viewmodel.Status { return m.status }

// Posts returns the posts currently in the list, in order.
func (m Model) Posts() []model.Post {
	out := make([]model.Post, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if pi, ok := it.(postItem); ok {
			out = append(out, pi.post)
		}
	}
	return out
}

func (m Model) View() string {
	var b strings.Builder

	switch m.status {
	case viewmodel.StatusLoading:
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render("Loading posts..."))
		b.WriteString("\n\n")
	case viewmodel.StatusFailed:
		msg := "could not load posts"
		if m.err != nil {
			msg += ": " + m.err.Error()
		}
		b.WriteString(errorStyle.Width(max(m.width-6, 10)).Render("✖ " + msg))
		b.WriteString("\n\n")
	}

	b.WriteString(m.list.View())

	if m.showDetail {
		if it, ok := m.list.SelectedItem().(postItem); ok {
			b.WriteString("\n")
			b.WriteString(m.detailView(it.post))
		}
	}
	return panelString(b.String())
}

func (m Model) detailView(p model.Post) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(max(m.width-8, 10)).
		MaxHeight(detailHeight)
	header := titleStyle.Render(p.Title) + "\n" +
		mutedStyle.Render(fmt.Sprintf("post #%d • user %d", p.ID, p.UserID))
	return box.Render(header + "\n\n" + p.Body)
}

// helpers for View
func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}
