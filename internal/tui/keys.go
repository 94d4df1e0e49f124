package tui

import "github.com/charmbracelet/bubbles/key"

// postsKeyMap is the posts browser's key bindings.
type postsKeyMap struct {
	Up, Down    key.Binding
	Prev, Next  key.Binding
	Page        key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	Retry       key.Binding
	Open        key.Binding
	Quit        key.Binding
}

func defaultPostsKeys() postsKeyMap {
	return postsKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Page:        key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "page")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Retry:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "try again")),
		Open:        key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "view details")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k postsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Prev, k.Next, k.Open, k.Retry, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k postsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Prev, k.Next, k.Page},
		{k.Search, k.ClearSearch, k.Retry, k.Quit},
	}
}
