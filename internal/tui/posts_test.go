package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/posts"
)

type fakeSource struct {
	all      []model.Post
	failing  bool
	requests []int
}

func (f *fakeSource) FetchPage(_ context.Context, page int) (posts.Page, error) {
	f.requests = append(f.requests, page)
	if f.failing {
		return posts.Page{}, &posts.FetchError{Page: page, StatusCode: 500, Err: posts.ErrBadStatus}
	}
	start := min((page-1)*10, len(f.all))
	end := min(start+10, len(f.all))
	return posts.Page{Number: page, Items: f.all[start:end], TotalCount: len(f.all), HasTotal: true}, nil
}

func (f *fakeSource) PageSize() int { return 10 }

func (f *fakeSource) DetailURL(id int) string {
	return fmt.Sprintf("https://example.test/posts/%d", id)
}

func samplePosts(n int) []model.Post {
	out := make([]model.Post, n)
	for i := range out {
		out[i] = model.Post{ID: i + 1, Title: fmt.Sprintf("post %d", i+1), Body: fmt.Sprintf("body of post %d", i+1)}
	}
	return out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// collect executes cmd and flattens batches. Only used on commands that do
// not sleep.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds fetch and open results produced by cmd back into m.
func settle(t *testing.T, m PostsModel, cmd tea.Cmd) PostsModel {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case pageLoadedMsg, detailOpenedMsg:
			next, c := m.Update(msg)
			m = next.(PostsModel)
			m = settle(t, m, c)
		}
	}
	return m
}

// press sends one key and settles fetches it triggers.
func press(t *testing.T, m PostsModel, msg tea.KeyMsg) PostsModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(PostsModel)
	if m.search.Focused() {
		// text input commands only blink the cursor
		return m
	}
	return settle(t, m, cmd)
}

func started(t *testing.T, src *fakeSource, opts ...PostsOption) PostsModel {
	t.Helper()
	m := NewPostsModel(context.Background(), src, opts...)
	assert.Equal(t, posts.ModeLoading, m.State().Mode())
	assert.Contains(t, m.View(), "Loading posts...")
	return settle(t, m, m.Init())
}

func TestPostsModel_LoadsFirstPage(t *testing.T) {
	src := &fakeSource{all: samplePosts(25)}
	m := started(t, src)

	require.Equal(t, posts.ModeReady, m.State().Mode())
	st := m.State().State()
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 3, st.TotalPages)
	assert.Len(t, st.Items, 10)
	assert.Equal(t, []int{1}, src.requests)

	out := m.View()
	assert.Contains(t, out, "API Data - Posts from JSONPlaceholder")
	assert.Contains(t, out, "post 1")
	assert.Contains(t, out, "Post ID: 1")
	assert.Contains(t, out, "Showing 10 of 10 posts")
	assert.Contains(t, out, "Previous")
	assert.Contains(t, out, "Next")
}

func TestPostsModel_Navigation(t *testing.T) {
	src := &fakeSource{all: samplePosts(25)}
	m := started(t, src)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.State().State().CurrentPage)

	m = press(t, m, runes("3"))
	st := m.State().State()
	assert.Equal(t, 3, st.CurrentPage)
	assert.Len(t, st.Items, 5)
	assert.Equal(t, 21, st.Items[0].ID)

	// past the last page nothing is requested
	m = press(t, m, runes("l"))
	m = press(t, m, runes("5"))
	assert.Equal(t, 3, m.State().State().CurrentPage)

	m = press(t, m, runes("h"))
	assert.Equal(t, 2, m.State().State().CurrentPage)
	assert.Equal(t, []int{1, 2, 3, 2}, src.requests)
}

func TestPostsModel_SearchHidesPagination(t *testing.T) {
	src := &fakeSource{all: samplePosts(25)}
	m := started(t, src)

	m = press(t, m, runes("/"))
	require.True(t, m.search.Focused())
	for _, r := range "post 1" {
		m = press(t, m, runes(string(r)))
	}
	assert.Equal(t, "post 1", m.State().Query())
	assert.Len(t, m.State().Visible(), 2) // post 1, post 10
	assert.False(t, m.State().ShowPagination())
	assert.Contains(t, m.View(), "(filtered from 10 total)")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.search.Focused())

	m = press(t, m, runes("2"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, []int{1}, src.requests, "navigation is ignored while searching")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.State().Query())
	assert.True(t, m.State().ShowPagination())
}

func TestPostsModel_NoMatches(t *testing.T) {
	m := started(t, &fakeSource{all: samplePosts(5)})
	m = press(t, m, runes("/"))
	for _, r := range "zzz" {
		m = press(t, m, runes(string(r)))
	}
	assert.Contains(t, m.View(), "No posts found matching your search.")
}

func TestPostsModel_ErrorAndRetry(t *testing.T) {
	src := &fakeSource{all: samplePosts(25), failing: true}
	m := started(t, src)

	require.Equal(t, posts.ModeError, m.State().Mode())
	out := m.View()
	assert.Contains(t, out, "Error loading posts")
	assert.Contains(t, out, posts.FailureMessage)
	assert.Contains(t, out, "Try Again")

	// pagination keys do nothing from the error view
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, []int{1}, src.requests)

	src.failing = false
	m = press(t, m, runes("r"))
	require.Equal(t, posts.ModeReady, m.State().Mode())
	assert.Equal(t, []int{1, 1}, src.requests)
	assert.Len(t, m.State().State().Items, 10)
}

func TestPostsModel_StaleResultIsDropped(t *testing.T) {
	src := &fakeSource{all: samplePosts(25)}
	m := started(t, src)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(PostsModel)
	require.NotNil(t, cmd)
	require.Equal(t, posts.ModeLoading, m.State().Mode())

	stale := pageLoadedMsg{
		req:  posts.Request{Page: 3, Seq: 1},
		page: posts.Page{Number: 3, Items: samplePosts(1), TotalCount: 1, HasTotal: true},
	}
	next, _ = m.Update(stale)
	m = next.(PostsModel)
	assert.Equal(t, posts.ModeLoading, m.State().Mode())

	m = settle(t, m, cmd)
	assert.Equal(t, 2, m.State().State().CurrentPage)
	assert.Equal(t, 3, m.State().State().TotalPages)
}

func TestPostsModel_ViewDetails(t *testing.T) {
	var opened []string
	open := func(url string) error {
		opened = append(opened, url)
		return nil
	}
	m := started(t, &fakeSource{all: samplePosts(25)}, WithOpener(open))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"https://example.test/posts/2"}, opened)
	assert.Contains(t, m.View(), "opened https://example.test/posts/2")
}

func TestPostsModel_ViewDetailsFailure(t *testing.T) {
	open := func(string) error { return errors.New("no browser") }
	m := started(t, &fakeSource{all: samplePosts(3)}, WithOpener(open))

	m = press(t, m, runes("o"))
	assert.Contains(t, m.View(), "could not open https://example.test/posts/1")
}

func TestPostsModel_CursorStaysInRange(t *testing.T) {
	m := started(t, &fakeSource{all: samplePosts(3)})
	for i := 0; i < 5; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 2, m.cursor)
	for i := 0; i < 5; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, 0, m.cursor)
}

func TestPostsModel_Quit(t *testing.T) {
	m := started(t, &fakeSource{all: samplePosts(3)})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = press(t, m, runes("/"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, cursor, size int
		from, to        int
	}{
		{n: 3, cursor: 0, size: 5, from: 0, to: 3},
		{n: 10, cursor: 0, size: 4, from: 0, to: 4},
		{n: 10, cursor: 5, size: 4, from: 3, to: 7},
		{n: 10, cursor: 9, size: 4, from: 6, to: 10},
	}
	for _, tt := range tests {
		from, to := window(tt.n, tt.cursor, tt.size)
		assert.Equal(t, tt.from, from, "from for %+v", tt)
		assert.Equal(t, tt.to, to, "to for %+v", tt)
	}
}
