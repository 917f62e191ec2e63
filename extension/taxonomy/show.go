// show.go implements the "revdrill taxonomy show" command.
//
// Design: Error names are only guaranteed unique within a category, so the
// two-argument form pins the category while the one-argument form takes the
// first match in document order. The implementation guide is included in the
// output - it tells an LLM (or a curious student) how the error gets planted.

package taxonomy

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/spf13/cobra"
)

func (e *Extension) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [category] <name>",
		Short: "Show one error definition",
		Long: `Show the full definition of one error: description and implementation guide.

  revdrill taxonomy show "Off-by-one error"
  revdrill taxonomy show Logical "Off-by-one error"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: e.runShow,
	}
}

func (e *Extension) runShow(_ *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		log.Event("taxonomy:show", "read").User(cmd.User()).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("taxonomy show: %w", err))
	}

	var match taxonomy.Match
	var name string
	if len(args) == 2 {
		category := args[0]
		name = args[1]
		def, lookupErr := cat.Lookup(category, name)
		err = lookupErr
		match = taxonomy.Match{Category: category, Definition: def}
	} else {
		name = args[0]
		match, err = cat.FindByName(name)
	}

	log.Event("taxonomy:show", "read").
		User(cmd.User()).
		Detail("name", name).
		Detail("category", match.Category).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("taxonomy show %q: %w", name, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(match)
	}

	fmt.Fprintf(cmd.Out(), "%s (%s)\n\n%s\n", match.Name, match.Category, match.Description)
	if match.Guide != "" {
		fmt.Fprintf(cmd.Out(), "\nImplementation guide:\n  %s\n", match.Guide)
	}
	return nil
}
