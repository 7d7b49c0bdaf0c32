package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
	"github.com/mrlokans/cocktails/internal/screens"
)

// FavoritesCommand manages the saved drinks: list, add, remove or reset
type FavoritesCommand struct {
	catalogFlags

	DatabasePath string
	Action       string
	ID           string
	Out          io.Writer
}

// NewFavoritesCommand creates a new FavoritesCommand
func NewFavoritesCommand() *FavoritesCommand {
	return &FavoritesCommand{}
}

// ParseFlags parses command line flags followed by the action and its argument.
func (cmd *FavoritesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("favorites", flag.ExitOnError)
	cmd.catalogFlags.register(fs)
	registerDatabaseFlag(fs, &cmd.DatabasePath)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s favorites [options] [list | add <id> | remove <id> | reset]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage the favorites stored in the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Action = "list"
	if fs.NArg() > 0 {
		cmd.Action = fs.Arg(0)
	}
	cmd.ID = strings.TrimSpace(fs.Arg(1))

	switch cmd.Action {
	case "list", "reset":
		return nil
	case "add", "remove":
		if cmd.ID == "" {
			return fmt.Errorf("%s requires a drink id", cmd.Action)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
}

// Run executes the command
func (cmd *FavoritesCommand) Run() error {
	out := outputOrStdout(cmd.Out)
	ctx := context.Background()

	store, closeDB, err := openFavorites(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDB()

	switch cmd.Action {
	case "add":
		return cmd.add(ctx, out, store)
	case "remove":
		return cmd.remove(ctx, out, store)
	case "reset":
		notice := screens.NewFavorites(store).Reset(ctx)
		printNotice(out, notice)
		return noticeError(notice)
	default:
		return cmd.list(ctx, out, store)
	}
}

func (cmd *FavoritesCommand) list(ctx context.Context, out io.Writer, store *favorites.Store) error {
	screen := screens.NewFavorites(store)
	state := screen.Focus(ctx)
	if state.Failed() {
		if screen.CanReset() {
			fmt.Fprintf(out, "%s. Run '%s favorites reset' to start over.\n", state.Message, os.Args[0])
		}
		return errors.New(state.Message + ": " + state.Err.Error())
	}

	if len(state.Data) == 0 {
		fmt.Fprintln(out, "No favorites yet")
		return nil
	}
	printDrinkList(out, state.Data)
	return nil
}

func (cmd *FavoritesCommand) add(ctx context.Context, out io.Writer, store *favorites.Store) error {
	detail := screens.NewDetail(cmd.client(), store, cmd.ID)
	state := detail.Activate(ctx)
	if state.Failed() {
		return errors.New(state.Message + ": " + state.Err.Error())
	}
	if state.Data.Drink == nil {
		return errors.New(state.Message)
	}

	notice := detail.AddToFavorites(ctx)
	printNotice(out, notice)
	return noticeError(notice)
}

func (cmd *FavoritesCommand) remove(ctx context.Context, out io.Writer, store *favorites.Store) error {
	notice := screens.NewFavorites(store).Remove(ctx, cmd.ID)
	printNotice(out, notice)
	return noticeError(notice)
}

func noticeError(n entities.Notice) error {
	if n.Kind == entities.NoticeError {
		return errors.New(n.Message)
	}
	return nil
}
