package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/posts"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

const postsTitle = "API Data - Posts from JSONPlaceholder"

func newPostsClient(opt Options) (*posts.Client, error) {
	token, err := auth.BearerToken()
	if err != nil {
		opt.Logger.Warn("ignoring stored token", "err", err)
	}
	api := opt.Config.API
	return posts.New(posts.Config{
		Endpoint:          api.Endpoint,
		PageSize:          api.PageSize,
		Timeout:           api.Timeout,
		RequestsPerSecond: api.RequestsPerSecond,
		UserAgent:         api.UserAgent,
		Token:             token,
		Logger:            opt.Logger,
	})
}

// doPosts prints one page of posts. Pages other than the first are reached
// through the pager so the number is checked against the real page count.
func doPosts(ctx context.Context, a []string, opt Options) int {
	fs := newFlagSet("posts")
	query := fs.String("query", "", "only show posts whose title or body contains this text")
	rest, err := parseInterspersed(fs, a)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	page := 1
	switch len(rest) {
	case 0:
	case 1:
		if page, err = strconv.Atoi(rest[0]); err != nil || page < 1 {
			ui.Fail("posts: page must be a positive number: " + rest[0])
			return 2
		}
	default:
		ui.Fail("usage: tada posts [page] [--query Q]")
		return 2
	}

	client, err := newPostsClient(opt)
	if err != nil {
		ui.Fail("posts: " + err.Error())
		return 2
	}

	v := posts.NewView(client.PageSize())
	if code := load(ctx, v, client, v.Start()); code != 0 {
		return code
	}
	if page != 1 {
		req, ok := v.GoToPage(page)
		if !ok {
			ui.Fail(fmt.Sprintf("page %d out of range (1-%d)", page, v.State().TotalPages))
			return 2
		}
		if code := load(ctx, v, client, req); code != 0 {
			return code
		}
	}
	v.SetQuery(strings.TrimSpace(*query))

	ui.Panel(renderPage(v, client))
	return 0
}

func load(ctx context.Context, v *posts.View, f posts.PageFetcher, req posts.Request) int {
	if err := v.Load(ctx, f, req); err != nil {
		ui.Fail(v.State().Err)
		ui.Hint(err.Error())
		return 1
	}
	return 0
}

func renderPage(v *posts.View, client *posts.Client) []string {
	t := ui.Current()
	st := v.State()

	lines := []string{ui.C(t.Title, postsTitle)}
	if st.TotalPages > 0 {
		lines = append(lines, ui.C(t.Muted, fmt.Sprintf("Page %d of %d", st.CurrentPage, st.TotalPages)))
	}
	if q := v.Query(); q != "" {
		lines = append(lines, ui.C(t.Accent, t.SymSearch+" "+q))
	}
	lines = append(lines, "")

	visible := v.Visible()
	if len(visible) == 0 {
		lines = append(lines, ui.C(t.Muted, v.EmptyMessage()), "")
	}
	for _, p := range visible {
		lines = append(lines,
			ui.C(t.Title, ui.Truncate(p.Title, 72)),
			ui.C(t.Muted, ui.Truncate(strings.ReplaceAll(p.Body, "\n", " "), 72)),
			fmt.Sprintf("%s  %s", ui.C(t.Muted, fmt.Sprintf("Post ID: %d", p.ID)), ui.Link(client.DetailURL(p.ID))),
			"",
		)
	}

	if v.ShowPagination() {
		lines = append(lines, paginationLine(v), "")
	}
	return append(lines, ui.C(t.Muted, v.Summary()))
}

func paginationLine(v *posts.View) string {
	t := ui.Current()
	st := v.State()
	btn := func(label string, enabled bool) string {
		if !enabled {
			return ui.C(t.Disabled, label)
		}
		return label
	}
	parts := []string{btn(t.SymPrev+" Previous", v.CanPrev())}
	for _, n := range v.PageButtons() {
		if n == st.CurrentPage {
			parts = append(parts, ui.C(t.Selected, "["+strconv.Itoa(n)+"]"))
		} else {
			parts = append(parts, " "+strconv.Itoa(n)+" ")
		}
	}
	parts = append(parts, btn("Next "+t.SymNext, v.CanNext()))
	return strings.Join(parts, " ")
}

func doBrowse(ctx context.Context, opt Options) int {
	client, err := newPostsClient(opt)
	if err != nil {
		ui.Fail("browse: " + err.Error())
		return 2
	}
	if err := tui.RunPosts(ctx, client, opt.Logger); err != nil {
		ui.Fail("browse: " + err.Error())
		return 1
	}
	return 0
}
