// categories.go implements the "revdrill taxonomy categories" command.

package taxonomy

import (
	"fmt"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List error categories",
		Long:  `List the catalog's error categories with their definition counts.`,
		Args:  cobra.NoArgs,
		RunE:  e.runCategories,
	}
}

func (e *Extension) runCategories(_ *cobra.Command, _ []string) error {
	cat, err := loadCatalog()

	log.Event("taxonomy:categories", "list").
		User(cmd.User()).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("taxonomy categories: %w", err))
	}

	type entry struct {
		Category string `json:"category"`
		Errors   int    `json:"errors"`
	}
	entries := make([]entry, 0, len(cat.Categories()))
	for _, name := range cat.Categories() {
		defs, err := cat.CategoryErrors(name)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("taxonomy categories: %w", err))
		}
		entries = append(entries, entry{Category: name, Errors: len(defs)})
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{
			"categories":   entries,
			"total_errors": cat.Len(),
		})
	}

	for _, en := range entries {
		fmt.Fprintf(cmd.Out(), "%s (%d errors)\n", en.Category, en.Errors)
	}
	fmt.Fprintf(cmd.Out(), "\n%d errors in %d categories\n", cat.Len(), len(entries))
	return nil
}
