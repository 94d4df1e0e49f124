package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/browser"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/posts"
)

// PostSource is what the posts browser needs from the API client.
type PostSource interface {
	posts.PageFetcher
	PageSize() int
	DetailURL(id int) string
}

// Opener opens a URL outside the terminal.
type Opener func(url string) error

// pageLoadedMsg carries the outcome of one page request.
type pageLoadedMsg struct {
	req  posts.Request
	page posts.Page
	err  error
}

// detailOpenedMsg reports the outcome of "View Details".
type detailOpenedMsg struct {
	url string
	err error
}

const (
	postsTitle    = "API Data - Posts from JSONPlaceholder"
	linesPerPost  = 3
	chromeLines   = 12
	defaultWidth  = 80
	defaultHeight = 24
)

// PostsModel is the Bubble Tea model of the posts browser. The posts.View it
// wraps is only touched from Update.
type PostsModel struct {
	ctx    context.Context
	source PostSource
	view   *posts.View
	open   Opener
	logger *log.Logger

	search  textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    postsKeyMap

	cursor int
	status string
	width  int
	height int
}

// PostsOption configures NewPostsModel.
type PostsOption func(*PostsModel)

// WithOpener replaces the browser launcher used for "View Details".
func WithOpener(open Opener) PostsOption {
	return func(m *PostsModel) { m.open = open }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) PostsOption {
	return func(m *PostsModel) { m.logger = l }
}

// NewPostsModel builds the browser in its initial Loading state.
func NewPostsModel(ctx context.Context, source PostSource, opts ...PostsOption) PostsModel {
	ti := textinput.New()
	ti.Prompt = "⌕ "
	ti.Placeholder = "Search posts..."
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	h := help.New()
	h.Styles.ShortKey = helpStyle
	h.Styles.ShortDesc = helpStyle

	m := PostsModel{
		ctx:     ctx,
		source:  source,
		view:    posts.NewView(source.PageSize()),
		open:    browser.OpenURL,
		logger:  log.New(io.Discard),
		search:  ti,
		spinner: sp,
		help:    h,
		keys:    defaultPostsKeys(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// RunPosts starts the posts browser full-screen.
func RunPosts(ctx context.Context, source PostSource, logger *log.Logger) error {
	// the launcher's own output would tear the alt screen
	browser.Stdout, browser.Stderr = io.Discard, io.Discard

	m := NewPostsModel(ctx, source, WithLogger(logger))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// State exposes the underlying state machine.
func (m PostsModel) State() *posts.View { return m.view }

func (m PostsModel) Init() tea.Cmd {
	return m.load(m.view.Start())
}

func (m PostsModel) load(req posts.Request) tea.Cmd {
	src, ctx := m.source, m.ctx
	m.logger.Debug("requesting page", "page", req.Page, "seq", req.Seq)
	fetch := func() tea.Msg {
		page, err := src.FetchPage(ctx, req.Page)
		return pageLoadedMsg{req: req, page: page, err: err}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

func (m PostsModel) openDetail(p model.Post) tea.Cmd {
	url, open := m.source.DetailURL(p.ID), m.open
	return func() tea.Msg {
		return detailOpenedMsg{url: url, err: open(url)}
	}
}

func (m PostsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.view.Mode() != posts.ModeLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		if !m.view.Apply(msg.req, msg.page, msg.err) {
			m.logger.Debug("dropping stale page", "page", msg.req.Page, "seq", msg.req.Seq)
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("page load failed", "page", msg.req.Page, "err", msg.err)
		}
		m.cursor = 0
		return m, nil

	case detailOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("open details failed", "url", msg.url, "err", msg.err)
			m.status = errorStyle.Render("could not open " + msg.url)
		} else {
			m.status = mutedStyle.Render("opened " + msg.url)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m PostsModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "tab", "down":
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.SetQuery(m.search.Value())
	m.clampCursor()
	return m, cmd
}

func (m PostsModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		if m.view.Mode() != posts.ModeReady {
			return m, nil
		}
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.ClearSearch):
		m.search.SetValue("")
		m.view.SetQuery("")
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if req, ok := m.view.Retry(); ok {
			m.status = ""
			return m, m.load(req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		if req, ok := m.view.Prev(); ok {
			return m, m.load(req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if req, ok := m.view.Next(); ok {
			return m, m.load(req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Page):
		n, _ := strconv.Atoi(msg.String())
		if !containsPage(m.view.PageButtons(), n) {
			return m, nil
		}
		if req, ok := m.view.GoToPage(n); ok {
			return m, m.load(req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Visible())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.view.Mode() != posts.ModeReady {
			return m, nil
		}
		visible := m.view.Visible()
		if m.cursor < 0 || m.cursor >= len(visible) {
			return m, nil
		}
		return m, m.openDetail(visible[m.cursor])
	}
	return m, nil
}

func (m *PostsModel) clampCursor() {
	n := len(m.view.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func containsPage(pages []int, n int) bool {
	for _, p := range pages {
		if p == n {
			return true
		}
	}
	return false
}

// -------------- rendering --------------

func (m PostsModel) View() string {
	var body string
	switch m.view.Mode() {
	case posts.ModeLoading:
		body = m.loadingView()
	case posts.ModeError:
		body = m.errorView()
	default:
		body = m.readyView()
	}
	content := titleStyle.Render(postsTitle) + "\n\n" + body
	if m.status != "" {
		content += "\n" + m.status
	}
	content += "\n\n" + m.help.View(m.keys)
	return panelString(content)
}

func (m PostsModel) loadingView() string {
	return m.spinner.View() + " " + mutedStyle.Render("Loading posts...")
}

func (m PostsModel) errorView() string {
	st := m.view.State()
	return lipgloss.JoinVertical(lipgloss.Center,
		errorStyle.Render("⚠"),
		titleStyle.Render("Error loading posts"),
		mutedStyle.Render(st.Err),
		"",
		button("Try Again", buttonPrimary, false)+mutedStyle.Render("  (r)"),
	)
}

func (m PostsModel) readyView() string {
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	visible := m.view.Visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render(m.view.EmptyMessage()))
		b.WriteString("\n")
	} else {
		from, to := window(len(visible), m.cursor, m.capacity())
		if from > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  ↑ %d more", from)) + "\n")
		}
		for i := from; i < to; i++ {
			b.WriteString(m.renderPost(visible[i], i == m.cursor))
			b.WriteString("\n")
		}
		if to < len(visible) {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  ↓ %d more", len(visible)-to)) + "\n")
		}
	}

	if m.view.ShowPagination() {
		b.WriteString("\n")
		b.WriteString(m.renderPagination())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.view.Summary()))
	return b.String()
}

func (m PostsModel) renderPost(p model.Post, selected bool) string {
	width := m.width - 10
	if width < 20 {
		width = 20
	}
	title := titleStyle.Render(runewidth.Truncate(p.Title, width, "..."))
	body := mutedStyle.Render(runewidth.Truncate(strings.ReplaceAll(p.Body, "\n", " "), width, "..."))
	meta := mutedStyle.Render(fmt.Sprintf("Post ID: %d", p.ID))
	if selected {
		meta += "  " + button("View Details", buttonSecondary, false)
		return selectedPostStyle.Render(title + "\n" + body + "\n" + meta)
	}
	return postStyle.Render(title + "\n" + body + "\n" + meta)
}

func (m PostsModel) renderPagination() string {
	st := m.view.State()
	parts := []string{button("Previous", buttonSecondary, !m.view.CanPrev())}
	for _, n := range m.view.PageButtons() {
		v := buttonSecondary
		if n == st.CurrentPage {
			v = buttonPrimary
		}
		parts = append(parts, button(strconv.Itoa(n), v, false))
	}
	parts = append(parts, button("Next", buttonSecondary, !m.view.CanNext()))
	return strings.Join(parts, " ")
}

// capacity is how many posts fit on screen.
func (m PostsModel) capacity() int {
	n := (m.height - chromeLines) / linesPerPost
	if n < 1 {
		n = 1
	}
	return n
}

// window returns the [from, to) range of n rows that keeps cursor visible
// while showing at most size rows.
func window(n, cursor, size int) (from, to int) {
	if n <= size {
		return 0, n
	}
	from = cursor - size/2
	if from < 0 {
		from = 0
	}
	if from+size > n {
		from = n - size
	}
	return from, from + size
}
