package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/cocktails/internal/screens"
)

// DrinksCommand prints the drinks of one category
type DrinksCommand struct {
	catalogFlags

	Category string
	Out      io.Writer
}

// NewDrinksCommand creates a new DrinksCommand
func NewDrinksCommand() *DrinksCommand {
	return &DrinksCommand{}
}

// ParseFlags parses command line flags. The category may also be given as
// the first positional argument.
func (cmd *DrinksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("drinks", flag.ExitOnError)
	cmd.catalogFlags.register(fs)
	fs.StringVar(&cmd.Category, "c", "", "Category name, e.g. \"Ordinary Drink\"")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s drinks [options] [category]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the drinks filed under a category.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n  %s drinks \"Ordinary Drink\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Category == "" && fs.NArg() > 0 {
		cmd.Category = strings.Join(fs.Args(), " ")
	}
	if strings.TrimSpace(cmd.Category) == "" {
		return errors.New("category is required")
	}
	return nil
}

// Run executes the command
func (cmd *DrinksCommand) Run() error {
	out := outputOrStdout(cmd.Out)

	state := screens.NewCategory(cmd.client(), cmd.Category).Activate(context.Background())
	if state.Failed() {
		return errors.New(state.Message + ": " + state.Err.Error())
	}
	if len(state.Data) == 0 {
		fmt.Fprintf(out, "No drinks in category %q\n", cmd.Category)
		return nil
	}

	printDrinkList(out, state.Data)
	return nil
}
