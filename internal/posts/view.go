package posts

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// Mode is the display mode of the view. Exactly one is active at a time.
type Mode int

const (
	ModeLoading Mode = iota
	ModeError
	ModeReady
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeError:
		return "error"
	case ModeReady:
		return "ready"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is a snapshot of the view.
type State struct {
	Items       []model.Post
	CurrentPage int
	TotalPages  int
	Loading     bool
	Err         string
}

// Request identifies one fetch issued by the view. Seq grows with every
// request so late responses can be recognised and dropped.
type Request struct {
	Page int
	Seq  uint64
}

// View is the state machine behind the posts panel:
//
//	Loading -> Ready | Error
//	Ready   -> Loading   (page change, retry)
//	Error   -> Loading   (retry)
//
// It starts in Loading for page 1.
type View struct {
	pageSize int
	state    State
	query    string
	seq      uint64
	lastPage int
}

// NewView returns a view in its initial Loading state.
func NewView(pageSize int) *View {
	return &View{
		pageSize: pageSize,
		state:    State{CurrentPage: 1, Loading: true},
		lastPage: 1,
	}
}

// Start issues the request for the first page.
func (v *View) Start() Request { return v.request(1) }

func (v *View) request(page int) Request {
	v.seq++
	v.lastPage = page
	v.state.Loading = true
	v.state.Err = ""
	return Request{Page: page, Seq: v.seq}
}

// GoToPage asks for page n. It is ignored unless the view is showing a page,
// no search is active and n lies in [1, TotalPages]. Asking for the current
// page again re-fetches it.
func (v *View) GoToPage(n int) (Request, bool) {
	if v.Mode() != ModeReady || v.query != "" || !InRange(n, v.state.TotalPages) {
		return Request{}, false
	}
	return v.request(n), true
}

// Prev moves one page back.
func (v *View) Prev() (Request, bool) { return v.GoToPage(v.state.CurrentPage - 1) }

// Next moves one page forward.
func (v *View) Next() (Request, bool) { return v.GoToPage(v.state.CurrentPage + 1) }

// Retry re-issues the last requested page. Every call is an independent
// attempt; there is no backoff or limit.
func (v *View) Retry() (Request, bool) {
	if v.state.Loading {
		return Request{}, false
	}
	return v.request(v.lastPage), true
}

// Apply settles req with the fetch outcome. It returns false and leaves the
// view untouched when req is not the latest request issued.
func (v *View) Apply(req Request, page Page, err error) bool {
	if req.Seq != v.seq || !v.state.Loading {
		return false
	}
	v.state.Loading = false
	if err != nil {
		// previous items stay behind the error view
		v.state.Err = MessageFor(err)
		return true
	}
	v.state.Err = ""
	v.state.Items = page.Items
	v.state.CurrentPage = req.Page
	if page.HasTotal {
		v.state.TotalPages = TotalPages(page.TotalCount, v.pageSize)
	}
	return true
}

// Load runs req against f and applies the result.
func (v *View) Load(ctx context.Context, f PageFetcher, req Request) error {
	page, err := f.FetchPage(ctx, req.Page)
	v.Apply(req, page, err)
	return err
}

// Mode reports the active display mode.
func (v *View) Mode() Mode {
	switch {
	case v.state.Loading:
		return ModeLoading
	case v.state.Err != "":
		return ModeError
	default:
		return ModeReady
	}
}

// State returns a snapshot of the view.
func (v *View) State() State { return v.state }

// LastRequested is the page number the next Retry will ask for.
func (v *View) LastRequested() int { return v.lastPage }

// SetQuery replaces the search query.
func (v *View) SetQuery(q string) { v.query = q }

// Query returns the active search query.
func (v *View) Query() string { return v.query }

// Visible is the loaded page narrowed by the query.
func (v *View) Visible() []model.Post { return Filter(v.state.Items, v.query) }

// ShowPagination reports whether navigation controls are on screen.
func (v *View) ShowPagination() bool {
	return v.Mode() == ModeReady && v.query == "" && v.state.TotalPages > 1
}

// PageButtons lists the numbered page controls.
func (v *View) PageButtons() []int { return PageButtons(v.state.TotalPages) }

// CanPrev is false exactly on the first page.
func (v *View) CanPrev() bool { return v.state.CurrentPage > 1 }

// CanNext is false exactly on the last page.
func (v *View) CanNext() bool { return v.state.CurrentPage < v.state.TotalPages }

// Summary is the stats line under the list.
func (v *View) Summary() string {
	shown, loaded := len(v.Visible()), len(v.state.Items)
	s := fmt.Sprintf("Showing %d of %d posts", shown, loaded)
	if v.query != "" {
		s += fmt.Sprintf(" (filtered from %d total)", loaded)
	}
	return s
}

// EmptyMessage is shown when nothing is visible.
func (v *View) EmptyMessage() string {
	if v.query != "" {
		return "No posts found matching your search."
	}
	return "No posts available."
}
