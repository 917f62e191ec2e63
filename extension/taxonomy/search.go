// search.go implements the "revdrill taxonomy search" command.

package taxonomy

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search error names and descriptions",
		Long: `Case-insensitive substring search over error names and descriptions.

  revdrill taxonomy search loop
  revdrill taxonomy search "null pointer"`,
		Args: cobra.ExactArgs(1),
		RunE: e.runSearch,
	}
}

func (e *Extension) runSearch(_ *cobra.Command, args []string) error {
	term := args[0]

	cat, err := loadCatalog()
	if err != nil {
		log.Event("taxonomy:search", "search").User(cmd.User()).Detail("term", term).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("taxonomy search: %w", err))
	}

	matches := cat.Search(term)

	log.Event("taxonomy:search", "search").
		User(cmd.User()).
		Detail("term", term).
		Detail("count", len(matches)).
		Write(nil)

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{
			"term":    term,
			"count":   len(matches),
			"matches": matches,
		})
	}

	if len(matches) == 0 {
		fmt.Fprintf(cmd.Out(), "No matches for %q\n", term)
		return nil
	}

	for _, m := range matches {
		fmt.Fprintf(cmd.Out(), "%s: %s\n    %s\n", m.Category, m.Name, m.Description)
	}
	fmt.Fprintf(cmd.Out(), "\n%d match(es)\n", len(matches))
	return nil
}
