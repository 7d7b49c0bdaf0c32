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
	"github.com/mrlokans/cocktails/internal/screens"
)

// DrinkCommand prints one drink and optionally saves it as a favorite
type DrinkCommand struct {
	catalogFlags

	ID           string
	DatabasePath string
	AddFavorite  bool
	Out          io.Writer
}

// NewDrinkCommand creates a new DrinkCommand
func NewDrinkCommand() *DrinkCommand {
	return &DrinkCommand{}
}

// ParseFlags parses command line flags
func (cmd *DrinkCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("drink", flag.ExitOnError)
	cmd.catalogFlags.register(fs)
	registerDatabaseFlag(fs, &cmd.DatabasePath)
	fs.BoolVar(&cmd.AddFavorite, "add", false, "Add the drink to favorites")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s drink [options] <id>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show the full record of a drink.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n  %s drink -add 11007\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.ID = strings.TrimSpace(fs.Arg(0))
	if cmd.ID == "" {
		return errors.New("drink id is required")
	}
	return nil
}

// Run executes the command
func (cmd *DrinkCommand) Run() error {
	out := outputOrStdout(cmd.Out)
	ctx := context.Background()

	store, closeDB, err := openFavorites(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDB()

	detail := screens.NewDetail(cmd.client(), store, cmd.ID)
	state := detail.Activate(ctx)
	if state.Failed() {
		return errors.New(state.Message + ": " + state.Err.Error())
	}
	if state.Data.Drink == nil {
		fmt.Fprintln(out, state.Message)
		return nil
	}

	if cmd.AddFavorite {
		notice := detail.AddToFavorites(ctx)
		printNotice(out, notice)
		if notice.Kind == entities.NoticeError {
			return errors.New(notice.Message)
		}
		state = detail.State()
	}

	printDrink(out, state.Data.Drink, state.Data.IsFavorite)
	return nil
}

func printNotice(w io.Writer, n entities.Notice) {
	if n.Message != "" {
		fmt.Fprintf(w, "[%s] %s\n", n.Title, n.Message)
		return
	}
	fmt.Fprintf(w, "[%s]\n", n.Title)
}
