package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/cocktails/internal/screens"
)

// CategoriesCommand prints the drink categories
type CategoriesCommand struct {
	catalogFlags

	Out io.Writer
}

// NewCategoriesCommand creates a new CategoriesCommand
func NewCategoriesCommand() *CategoriesCommand {
	return &CategoriesCommand{}
}

// ParseFlags parses command line flags
func (cmd *CategoriesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	cmd.catalogFlags.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s categories [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the drink categories of the catalog.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the command
func (cmd *CategoriesCommand) Run() error {
	out := outputOrStdout(cmd.Out)

	state := screens.NewHome(cmd.client()).Activate(context.Background())
	if state.Failed() {
		return errors.New(state.Message + ": " + state.Err.Error())
	}

	for i, c := range state.Data {
		fmt.Fprintf(out, "%3d. %s\n", i+1, c.Name)
	}
	return nil
}
