package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
	"github.com/mrlokans/cocktails/internal/screens"
)

// BrowseCommand runs the interactive terminal browser
type BrowseCommand struct {
	catalogFlags

	DatabasePath string
	In           io.Reader
	Out          io.Writer
}

// NewBrowseCommand creates a new BrowseCommand
func NewBrowseCommand() *BrowseCommand {
	return &BrowseCommand{}
}

// ParseFlags parses command line flags
func (cmd *BrowseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	cmd.catalogFlags.register(fs)
	registerDatabaseFlag(fs, &cmd.DatabasePath)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s browse [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Browse categories and drinks interactively and manage favorites.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the command until the user quits or input ends
func (cmd *BrowseCommand) Run() error {
	store, closeDB, err := openFavorites(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDB()

	in := cmd.In
	if in == nil {
		in = os.Stdin
	}

	b := newBrowser(cmd.client(), store, in, outputOrStdout(cmd.Out))
	return b.run(context.Background())
}

// view is one screen of the terminal browser.
type view interface {
	show(ctx context.Context)
	handle(ctx context.Context, line string) nav
	leave()
}

// nav tells the browser what to do after a command.
type nav struct {
	push   view
	back   bool
	quit   bool
	redraw bool
}

type browser struct {
	catalog *catalog.Client
	store   *favorites.Store
	scanner *bufio.Scanner
	out     io.Writer
	stack   []view
}

func newBrowser(client *catalog.Client, store *favorites.Store, in io.Reader, out io.Writer) *browser {
	return &browser{
		catalog: client,
		store:   store,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (b *browser) run(ctx context.Context) error {
	b.stack = []view{&homeView{b: b, screen: screens.NewHome(b.catalog)}}
	b.top().show(ctx)

	for {
		line, ok := b.prompt("> ")
		if !ok {
			b.leaveAll()
			return b.scanner.Err()
		}
		if line == "" {
			continue
		}

		n := b.top().handle(ctx, line)
		switch {
		case n.quit:
			b.leaveAll()
			return nil
		case n.back:
			if len(b.stack) == 1 {
				b.leaveAll()
				return nil
			}
			b.top().leave()
			b.stack = b.stack[:len(b.stack)-1]
			b.top().show(ctx)
		case n.push != nil:
			b.stack = append(b.stack, n.push)
			n.push.show(ctx)
		case n.redraw:
			b.top().show(ctx)
		}
	}
}

func (b *browser) top() view {
	return b.stack[len(b.stack)-1]
}

func (b *browser) leaveAll() {
	for i := len(b.stack) - 1; i >= 0; i-- {
		b.stack[i].leave()
	}
	b.stack = nil
}

func (b *browser) prompt(label string) (string, bool) {
	fmt.Fprint(b.out, label)
	if !b.scanner.Scan() {
		fmt.Fprintln(b.out)
		return "", false
	}
	return strings.TrimSpace(b.scanner.Text()), true
}

// confirm asks a yes/no question; anything but y or yes declines.
func (b *browser) confirm(question string) bool {
	answer, ok := b.prompt(question + " [y/N] ")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (b *browser) printf(format string, args ...any) {
	fmt.Fprintf(b.out, format, args...)
}

func (b *browser) notice(n entities.Notice) {
	printNotice(b.out, n)
}

func (b *browser) failed(message string) {
	b.printf("! %s\n  r: retry  b: back  q: quit\n", message)
}

// pick parses a 1-based list index.
func pick(line string, size int) (int, bool) {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > size {
		return 0, false
	}
	return n - 1, true
}

// common handles the keys every view understands.
func common(line string) (nav, bool) {
	switch line {
	case "q", "quit":
		return nav{quit: true}, true
	case "b", "back":
		return nav{back: true}, true
	}
	return nav{}, false
}

type homeView struct {
	b      *browser
	screen *screens.Home
}

func (v *homeView) show(ctx context.Context) {
	state := v.screen.State()
	if state.Status == screens.StatusIdle {
		state = v.screen.Activate(ctx)
	}
	if state.Failed() {
		v.b.failed(state.Message)
		return
	}

	v.b.printf("\nCategories\n")
	for i, c := range state.Data {
		v.b.printf("%3d. %s\n", i+1, c.Name)
	}
	v.b.printf("Pick a number, f: favorites, q: quit\n")
}

func (v *homeView) handle(ctx context.Context, line string) nav {
	if n, ok := common(line); ok {
		return n
	}
	switch line {
	case "r":
		v.screen.Retry(ctx)
		return nav{redraw: true}
	case "f", "favorites":
		return nav{push: newFavoritesView(v.b)}
	}

	state := v.screen.State()
	if i, ok := pick(line, len(state.Data)); ok && state.Loaded() {
		name := state.Data[i].Name
		return nav{push: &categoryView{b: v.b, screen: screens.NewCategory(v.b.catalog, name)}}
	}
	v.b.printf("Unknown command %q\n", line)
	return nav{}
}

func (v *homeView) leave() {
	v.screen.Deactivate()
}

type categoryView struct {
	b      *browser
	screen *screens.Category
}

func (v *categoryView) show(ctx context.Context) {
	state := v.screen.State()
	if state.Status == screens.StatusIdle {
		state = v.screen.Activate(ctx)
	}
	if state.Failed() {
		v.b.failed(state.Message)
		return
	}

	v.b.printf("\n%s\n", v.screen.Name())
	if len(state.Data) == 0 {
		v.b.printf("No drinks in this category\n")
	}
	printDrinkList(v.b.out, state.Data)
	v.b.printf("Pick a number, b: back, f: favorites, q: quit\n")
}

func (v *categoryView) handle(ctx context.Context, line string) nav {
	if n, ok := common(line); ok {
		return n
	}
	switch line {
	case "r":
		v.screen.Retry(ctx)
		return nav{redraw: true}
	case "f", "favorites":
		return nav{push: newFavoritesView(v.b)}
	}

	state := v.screen.State()
	if i, ok := pick(line, len(state.Data)); ok && state.Loaded() {
		return nav{push: newDetailView(v.b, state.Data[i].ID)}
	}
	v.b.printf("Unknown command %q\n", line)
	return nav{}
}

func (v *categoryView) leave() {
	v.screen.Deactivate()
}

type detailView struct {
	b      *browser
	screen *screens.Detail
}

func newDetailView(b *browser, id string) *detailView {
	return &detailView{b: b, screen: screens.NewDetail(b.catalog, b.store, id)}
}

func (v *detailView) show(ctx context.Context) {
	state := v.screen.State()
	if state.Status == screens.StatusIdle {
		state = v.screen.Activate(ctx)
	}
	if state.Failed() {
		v.b.failed(state.Message)
		return
	}
	if state.Data.Drink == nil {
		v.b.printf("\n%s\nb: back, q: quit\n", state.Message)
		return
	}

	v.b.printf("\n")
	printDrink(v.b.out, state.Data.Drink, state.Data.IsFavorite)
	v.b.printf("a: add to favorites, b: back, f: favorites, q: quit\n")
}

func (v *detailView) handle(ctx context.Context, line string) nav {
	if n, ok := common(line); ok {
		return n
	}
	switch line {
	case "r":
		v.screen.Retry(ctx)
		return nav{redraw: true}
	case "a", "add":
		v.b.notice(v.screen.AddToFavorites(ctx))
		return nav{}
	case "f", "favorites":
		return nav{push: newFavoritesView(v.b)}
	}
	v.b.printf("Unknown command %q\n", line)
	return nav{}
}

func (v *detailView) leave() {
	v.screen.Deactivate()
}

type favoritesView struct {
	b      *browser
	screen *screens.Favorites
}

func newFavoritesView(b *browser) *favoritesView {
	return &favoritesView{b: b, screen: screens.NewFavorites(b.store)}
}

// show reloads on every display so changes made elsewhere appear.
func (v *favoritesView) show(ctx context.Context) {
	state := v.screen.Focus(ctx)
	if state.Failed() {
		if v.screen.CanReset() {
			v.b.printf("! %s\n  reset: discard stored favorites  b: back  q: quit\n", state.Message)
			return
		}
		v.b.failed(state.Message)
		return
	}

	v.b.printf("\nFavorites\n")
	if len(state.Data) == 0 {
		v.b.printf("No favorites yet\n")
	}
	printDrinkList(v.b.out, state.Data)
	v.b.printf("Pick a number to open, d <n>: remove, b: back, q: quit\n")
}

func (v *favoritesView) handle(ctx context.Context, line string) nav {
	if n, ok := common(line); ok {
		return n
	}

	state := v.screen.State()
	switch {
	case line == "r":
		return nav{redraw: true}
	case line == "reset":
		if !v.b.confirm("Discard all stored favorites?") {
			return nav{}
		}
		v.b.notice(v.screen.Reset(ctx))
		return nav{redraw: true}
	case strings.HasPrefix(line, "d "):
		i, ok := pick(strings.TrimSpace(strings.TrimPrefix(line, "d ")), len(state.Data))
		if !ok || !state.Loaded() {
			v.b.printf("No such favorite\n")
			return nav{}
		}
		drink := state.Data[i]
		if !v.b.confirm(fmt.Sprintf("Remove %s from favorites?", drink.Name)) {
			return nav{}
		}
		v.b.notice(v.screen.Remove(ctx, drink.ID))
		return nav{redraw: true}
	}

	if i, ok := pick(line, len(state.Data)); ok && state.Loaded() {
		return nav{push: newDetailView(v.b, state.Data[i].ID)}
	}
	v.b.printf("Unknown command %q\n", line)
	return nav{}
}

func (v *favoritesView) leave() {
	v.screen.Deactivate()
}
