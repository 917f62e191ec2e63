// errors.go implements the "revdrill taxonomy errors" command.

package taxonomy

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newErrorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors <category>",
		Short: "List the errors in a category",
		Long: `List every error definition in one category.

  revdrill taxonomy errors Logical
  revdrill taxonomy errors Syntax`,
		Args: cobra.ExactArgs(1),
		RunE: e.runErrors,
	}
}

func (e *Extension) runErrors(_ *cobra.Command, args []string) error {
	category := args[0]

	cat, err := loadCatalog()
	if err != nil {
		log.Event("taxonomy:errors", "list").User(cmd.User()).Detail("category", category).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("taxonomy errors: %w", err))
	}

	defs, err := cat.CategoryErrors(category)

	log.Event("taxonomy:errors", "list").
		User(cmd.User()).
		Detail("category", category).
		Detail("count", len(defs)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("taxonomy errors %q: %w", category, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{
			"category": category,
			"errors":   defs,
		})
	}

	for _, d := range defs {
		fmt.Fprintf(cmd.Out(), "%s\n    %s\n", d.Name, d.Description)
	}
	fmt.Fprintf(cmd.Out(), "\n%d error(s) in %s\n", len(defs), category)
	return nil
}
