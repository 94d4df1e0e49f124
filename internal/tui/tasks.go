package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// TaskStore is where the task list is loaded from and saved to.
type TaskStore interface {
	Load() ([]model.Item, error)
	Save([]model.Item) error
}

// taskItem adapts model.Item to bubbles/list.Item
type taskItem struct {
	Text string
	Done bool
}

func (i taskItem) TitleText() string {
	box := boxUnchecked
	if i.Done {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Text)
}

// Implement list.Item interface
func (i taskItem) Title() string       { return i.TitleText() }
func (i taskItem) Description() string { return "" }
func (i taskItem) FilterValue() string { return i.Text }

// taskDelegate renders one task per line.
type taskDelegate struct{}

func (d taskDelegate) Height() int                               { return 1 }
func (d taskDelegate) Spacing() int                              { return 0 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(taskItem)

	box := mutedStyle.Render(boxUnchecked)
	text := it.Text
	if it.Done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// TasksModel is the interactive task list. All edits work on a full copy of
// the list; the bubbles list only shows the entries matching status.
type TasksModel struct {
	list    list.Model
	items   []model.Item
	shown   []int // list row -> index into items
	status  model.Status
	changed bool

	// Inline add and edit share one input.
	adding    bool
	editing   bool
	editIndex int // index into items
	ti        textinput.Model
	inputErr  string

	// Undo support (single-level)
	canUndo   bool
	undoIndex int
	undoItem  model.Item

	width, height int
}

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editKey   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoKey   = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	statusKey = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "all/active/done"))
	clearKey  = key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed"))
)

// NewTasksModel builds the list over a copy of items.
func NewTasksModel(items []model.Item) TasksModel {
	l := list.New(nil, taskDelegate{}, defaultWidth-2, defaultHeight-4)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{addKey, editKey, toggleKey, undoKey, statusKey}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{addKey, editKey, toggleKey, deleteKey, undoKey, statusKey, clearKey}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task title..."
	ti.CharLimit = 200

	m := TasksModel{
		list:   l,
		items:  append([]model.Item(nil), items...),
		status: model.StatusAll,
		ti:     ti,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.refresh()
	return m
}

// RunTasks opens the interactive list and saves on quit when anything
// changed. It reports whether a save happened.
func RunTasks(store TaskStore) (bool, error) {
	items, err := store.Load()
	if err != nil {
		return false, err
	}
	p := tea.NewProgram(NewTasksModel(items), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(TasksModel)
	if !ok || !fm.changed {
		return false, nil
	}
	if err := store.Save(fm.items); err != nil {
		return false, err
	}
	return true, nil
}

// Items returns the edited list.
func (m TasksModel) Items() []model.Item { return m.items }

// Changed reports whether the list differs from what was loaded.
func (m TasksModel) Changed() bool { return m.changed }

// refresh rebuilds the visible rows and the header after an edit.
func (m *TasksModel) refresh() {
	m.shown = make([]int, 0, len(m.items))
	rows := make([]list.Item, 0, len(m.items))
	for i, it := range m.items {
		if !m.status.Match(it) {
			continue
		}
		m.shown = append(m.shown, i)
		rows = append(rows, taskItem{Text: it.Title, Done: it.Done})
	}
	idx := m.list.Index()
	m.list.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	dn, pn := model.Stats(m.items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		accentStyle.Render("Total"), len(m.items),
		mutedStyle.Render("["+string(m.status)+"]"),
	)
}

// selected returns the index into items of the highlighted row.
func (m TasksModel) selected() (int, bool) {
	row := m.list.Index()
	if row < 0 || row >= len(m.shown) {
		return 0, false
	}
	return m.shown[row], true
}

func (m TasksModel) Init() tea.Cmd { return nil }

func (m TasksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch {
	case km.String() == "q", km.String() == "esc", km.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(km, toggleKey):
		if i, ok := m.selected(); ok {
			m.items[i].Done = !m.items[i].Done
			m.changed = true
			m.refresh()
		}
		return m, nil

	case key.Matches(km, deleteKey):
		if i, ok := m.selected(); ok {
			m.undoItem, m.undoIndex, m.canUndo = m.items[i], i, true
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.changed = true
			m.refresh()
		}
		return m, nil

	case key.Matches(km, undoKey):
		if m.canUndo {
			idx := min(max(m.undoIndex, 0), len(m.items))
			m.items = append(m.items[:idx], append([]model.Item{m.undoItem}, m.items[idx:]...)...)
			m.canUndo = false
			m.changed = true
			m.refresh()
		}
		return m, nil

	case key.Matches(km, addKey):
		m.adding = true
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New task title..."
		m.resize()
		cmd := m.ti.Focus()
		return m, cmd

	case key.Matches(km, editKey):
		if i, ok := m.selected(); ok {
			m.editing = true
			m.editIndex = i
			m.inputErr = ""
			m.ti.SetValue(m.items[i].Title)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit task title..."
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		}
		return m, nil

	case key.Matches(km, statusKey):
		m.status = nextStatus(m.status)
		m.refresh()
		return m, nil

	case key.Matches(km, clearKey):
		kept := m.items[:0:0]
		for _, it := range m.items {
			if !it.Done {
				kept = append(kept, it)
			}
		}
		if len(kept) != len(m.items) {
			m.items = kept
			m.canUndo = false
			m.changed = true
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m TasksModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			if m.adding {
				at := len(m.items)
				if i, ok := m.selected(); ok {
					at = i + 1
				}
				m.items = append(m.items[:at], append([]model.Item{{Title: title}}, m.items[at:]...)...)
			} else if m.editIndex >= 0 && m.editIndex < len(m.items) {
				m.items[m.editIndex].Title = title
			}
			m.changed = true
			m.closeInput()
			m.refresh()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *TasksModel) closeInput() {
	m.adding, m.editing = false, false
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *TasksModel) resize() {
	h := m.height - 4
	if m.adding || m.editing {
		h -= 4
	}
	m.list.SetSize(m.width-2, max(h, 1))
}

func nextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusAll:
		return model.StatusActive
	case model.StatusActive:
		return model.StatusCompleted
	default:
		return model.StatusAll
	}
}

func (m TasksModel) View() string {
	content := m.list.View()
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add new task"
		if m.editing {
			title = "Edit task"
		}
		if m.inputErr != "" {
			title += ": " + errorStyle.Render(m.inputErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return panelString(content)
}
