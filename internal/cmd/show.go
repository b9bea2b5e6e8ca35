package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeatlas/parsecore"
	"github.com/codeatlas/parsecore/internal/model"
)

// symbolView is the yaml-friendly shape show prints for a matched symbol:
// the symbol itself plus the relationships touching it, split by direction.
type symbolView struct {
	Symbol   *model.Symbol         `yaml:"symbol"`
	Outgoing []*model.Relationship `yaml:"outgoing,omitempty"`
	Incoming []*model.Relationship `yaml:"incoming,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a symbol and its relationships",
	Long: `show scans the given path (or the current directory if --path is not
given), then looks up a symbol by name or id and prints it together with
every relationship where it appears as either endpoint.

If more than one symbol matches name, all matches are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showPath string

func init() {
	showCmd.Flags().StringVar(&showPath, "path", ".", "Root to scan before looking up the symbol")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadFacadeConfig(showPath)
	if err != nil {
		return err
	}

	facade := parsecore.New(showPath, cfg)
	input := parsecore.Input{Directories: []string{"."}, Incremental: true}

	ctx := context.Background()
	result := facade.Parse(ctx, input, time.Now())

	matches := findSymbols(result, name)
	if len(matches) == 0 {
		return fmt.Errorf("no symbol matching %q found", name)
	}

	views := make([]symbolView, 0, len(matches))
	for _, sym := range matches {
		views = append(views, symbolView{
			Symbol:   sym,
			Outgoing: relationshipsFrom(result, sym.ID),
			Incoming: relationshipsTo(result, sym.ID),
		})
	}

	return writeOutput(cmd, views)
}

// findSymbols returns every symbol in result whose id or name matches query
// exactly, or, failing that, whose name contains query as a substring.
func findSymbols(result *parsecore.ParseResult, query string) []*model.Symbol {
	var exact, partial []*model.Symbol
	for _, sym := range result.Symbols {
		switch {
		case sym.ID == query || sym.Name == query:
			exact = append(exact, sym)
		case strings.Contains(sym.Name, query):
			partial = append(partial, sym)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}

func relationshipsFrom(result *parsecore.ParseResult, id string) []*model.Relationship {
	var out []*model.Relationship
	for _, rel := range result.Relationships {
		if rel.FromEntityID == id {
			out = append(out, rel)
		}
	}
	return out
}

func relationshipsTo(result *parsecore.ParseResult, id string) []*model.Relationship {
	var out []*model.Relationship
	for _, rel := range result.Relationships {
		if rel.ToEntityID == id {
			out = append(out, rel)
		}
	}
	return out
}
