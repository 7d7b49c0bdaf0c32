package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/config"
	"github.com/mrlokans/cocktails/internal/database"
	"github.com/mrlokans/cocktails/internal/database/kv"
	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
)

// catalogFlags are shared by every command that talks to the catalog.
type catalogFlags struct {
	BaseURL string
	Timeout time.Duration
}

func (f *catalogFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.BaseURL, "base-url", catalog.DefaultBaseURL, "Catalog API root")
	fs.DurationVar(&f.Timeout, "timeout", 10*time.Second, "Timeout for each catalog request")
}

func (f *catalogFlags) client() *catalog.Client {
	return catalog.NewClient(catalog.Options{BaseURL: f.BaseURL, Timeout: f.Timeout})
}

func registerDatabaseFlag(fs *flag.FlagSet, target *string) {
	fs.StringVar(target, "db", config.DefaultDatabasePath, "Path to the local database holding favorites")
}

// openFavorites opens the database at path and returns its favorites store.
func openFavorites(path string) (*favorites.Store, func(), error) {
	db, err := database.NewDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing database: %v\n", err)
		}
	}
	return favorites.NewStore(kv.NewRepository(db.DB)), closeFn, nil
}

func outputOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func printDrinkList(w io.Writer, drinks []entities.Drink) {
	for i, d := range drinks {
		fmt.Fprintf(w, "%3d. %s (%s)\n", i+1, d.Name, d.ID)
	}
}

func printDrink(w io.Writer, d *entities.Drink, isFavorite bool) {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.ID)
	fmt.Fprintln(w, strings.Repeat("=", len(d.Name)+len(d.ID)+3))

	var meta []string
	for _, v := range []string{d.Category, d.Alcoholic, d.Glass} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, strings.Join(meta, " | "))
	}
	if isFavorite {
		fmt.Fprintln(w, "★ In favorites")
	}

	if ingredients := d.Ingredients(); len(ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients:")
		for _, ing := range ingredients {
			if ing.Measure != "" {
				fmt.Fprintf(w, "  - %s %s\n", ing.Measure, ing.Name)
			} else {
				fmt.Fprintf(w, "  - %s\n", ing.Name)
			}
		}
	}
	if d.Instructions != "" {
		fmt.Fprintf(w, "\nInstructions:\n  %s\n", d.Instructions)
	}
	if d.Thumbnail != "" {
		fmt.Fprintf(w, "\nImage: %s\n", d.Thumbnail)
	}
}
