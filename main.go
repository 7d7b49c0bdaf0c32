package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/cocktails/internal/cli"
	"github.com/mrlokans/cocktails/internal/config"
	"github.com/mrlokans/cocktails/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is the shape shared by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "browse":
		cmd = cli.NewBrowseCommand()
	case "categories":
		cmd = cli.NewCategoriesCommand()
	case "drinks":
		cmd = cli.NewDrinksCommand()
	case "drink":
		cmd = cli.NewDrinkCommand()
	case "favorites":
		cmd = cli.NewFavoritesCommand()
	case "version":
		fmt.Printf("cocktails %s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve        Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  browse       Browse categories, drinks and favorites interactively\n")
	fmt.Fprintf(os.Stderr, "  categories   List drink categories\n")
	fmt.Fprintf(os.Stderr, "  drinks       List the drinks of a category\n")
	fmt.Fprintf(os.Stderr, "  drink        Show one drink, optionally adding it to favorites\n")
	fmt.Fprintf(os.Stderr, "  favorites    List, add, remove or reset favorites\n")
	fmt.Fprintf(os.Stderr, "  version      Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
