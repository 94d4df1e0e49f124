package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options carry what the root command resolved before dispatch.
type Options struct {
	Group  bool // list grouped by pending/done
	Config *config.Config
	Logger *log.Logger
	In     io.Reader // token prompt input
}

func (o Options) withDefaults() Options {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	return o
}

func (o Options) store() *jsonstore.Store { return jsonstore.New(o.Config.Todo.DataFile) }

// Interactive reports whether args start a full-screen program.
func Interactive(args []string) bool {
	return len(args) > 0 && (args[0] == "tui" || args[0] == "browse")
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt = opt.withDefaults()
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(a, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tada add <title...>")
			return 2
		}
		return doAdd(strings.Join(a, " "), opt)

	case "done":
		n, code := indexArg("done", a)
		if code != 0 {
			return code
		}
		return doToggle(n, opt)

	case "rm":
		n, code := indexArg("rm", a)
		if code != 0 {
			return code
		}
		return doRemove(n, opt)

	case "clear-completed":
		return doClearCompleted(opt)

	case "tui":
		return doTUI(opt)

	case "posts":
		return doPosts(ctx, a, opt)

	case "browse":
		return doBrowse(ctx, opt)

	case "auth":
		return doAuth(a, opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Stderr())
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout(), `tada - tasks and posts in your terminal

Usage:
  tada [flags] <subcommand> [args]

Subcommands:
  add <title...>          Add a new item (title can be multiple words)
  ls [--filter F]         List items; F is all, active or completed
  done <index>            Toggle done for item at 1-based index
  rm <index>              Remove item at 1-based index
  clear-completed         Remove every completed item
  tui                     Interactive task list
  posts [page] [--query Q]  Print one page of posts, optionally filtered
  browse                  Interactive posts browser
  auth <login|logout|status|whoami>   Token for the posts API

Flags:
  -config FILE   config file (default ~/.tada/config.toml, ./tada.toml)
  -data FILE     task list file
  -endpoint URL  posts collection URL
  -page-size N   posts per page
  -theme NAME    classic, neon, mono or dark
  -group         group ls output by pending/done

Examples:
  tada add "Buy milk"
  tada ls --filter active
  tada done 2
  tada posts 3 --query dolor
`)
}

func indexArg(cmd string, a []string) (int, int) {
	if len(a) != 1 {
		ui.Fail(fmt.Sprintf("usage: tada %s <index>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// parseInterspersed parses fs over args while allowing positional
// arguments between flags, returning the positionals.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return rest, nil
		}
		rest = append(rest, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ui.Stderr())
	return fs
}

// -------------- subcommand impls ----------------

func doList(a []string, opt Options) int {
	fs := newFlagSet("ls")
	filter := fs.String("filter", "all", "all, active or completed")
	group := fs.Bool("group", opt.Group, "group output by pending/done")
	if _, err := parseInterspersed(fs, a); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	status := model.ParseStatus(*filter)

	items, err := opt.store().Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}

	// Header + progress
	t := ui.Current()
	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Accent, "Total"), len(items),
	)
	if status != model.StatusAll {
		header += "  " + ui.C(t.Muted, "["+string(status)+"]")
	}

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	rows := numbered(items, status)
	if *group {
		lines = append(lines, groupLines(rows)...)
	} else {
		lines = append(lines, flatLines(rows)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(title string, opt Options) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	s := opt.store()
	items, err := s.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	items = append(items, model.Item{Title: title})
	if err := s.Save(items); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	opt.Logger.Debug("added item", "index", len(items), "file", s.Path)
	ui.OK("added")
	return 0
}

func doToggle(userIndex int, opt Options) int {
	s := opt.store()
	items, err := s.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if userIndex < 1 || userIndex > len(items) {
		outOfRange(len(items), userIndex)
		return 2
	}
	idx := userIndex - 1
	items[idx].Done = !items[idx].Done
	if err := s.Save(items); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("toggled")
	return 0
}

func doRemove(userIndex int, opt Options) int {
	s := opt.store()
	items, err := s.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if userIndex < 1 || userIndex > len(items) {
		outOfRange(len(items), userIndex)
		return 2
	}
	idx := userIndex - 1
	items = append(items[:idx], items[idx+1:]...)
	if err := s.Save(items); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func doClearCompleted(opt Options) int {
	s := opt.store()
	items, err := s.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	kept := make([]model.Item, 0, len(items))
	for _, it := range items {
		if !it.Done {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		ui.OK("nothing to clear")
		return 0
	}
	if err := s.Save(kept); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("cleared %d completed", removed))
	return 0
}

func doTUI(opt Options) int {
	saved, err := tui.RunTasks(opt.store())
	if err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	if saved {
		ui.OK("saved")
	}
	return 0
}

func outOfRange(have, got int) {
	ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", have, got))
	ui.Hint("Hint: run `tada ls` to see valid indexes")
}

// -------------- rendering helpers --------------

// row is an item with its 1-based position in the stored list.
type row struct {
	n  int
	it model.Item
}

func numbered(items []model.Item, status model.Status) []row {
	out := make([]row, 0, len(items))
	for i, it := range items {
		if status.Match(it) {
			out = append(out, row{n: i + 1, it: it})
		}
	}
	return out
}

func flatLines(rows []row) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		idx := fmt.Sprintf("%2d.", r.n)
		box, color := t.BoxUnchecked, t.Muted
		if r.it.Done {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C(t.Disabled, idx), ui.C(color, box), ui.Truncate(r.it.Title, 80)))
	}
	return out
}

func groupLines(rows []row) []string {
	var pend, done []row
	for _, r := range rows {
		if r.it.Done {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	t := ui.Current()
	section := func(title string, rs []row) []string {
		lines := []string{ui.C(t.Accent, title)}
		if len(rs) == 0 {
			return append(lines, ui.C(t.Muted, "(none)"))
		}
		return append(lines, flatLines(rs)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
