// Package taxonomy provides the taxonomy extension for revdrill.
// It registers the taxonomy command with subcommands: categories, errors,
// show, search, export.
//
// Note: This extension does not implement Initializable because the error
// catalog is embedded in the binary. Browsing it should work before
// "revdrill init" has ever run, so every subcommand loads the catalog
// itself instead of going through the shared service.
package taxonomy

import (
	"fmt"

	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/taxonomy"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the taxonomy extension.
type Extension struct{}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "taxonomy" - this extension provides error catalog browsing.
func (e *Extension) Name() string { return "taxonomy" }

// Commands returns the taxonomy command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newTaxonomyCmd(),
	}
}

// MCPTools returns nil - taxonomy MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands returns the taxonomy command group. The catalog is
// embedded, so none of the subcommands need a database.
func (e *Extension) NoStoreCommands() []string {
	return []string{"taxonomy"}
}

func (e *Extension) newTaxonomyCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "taxonomy",
		Short: "Browse the error taxonomy",
		Long: `Browse the Java code-review error catalog that exercises draw from.

  revdrill taxonomy categories
  revdrill taxonomy errors Logical
  revdrill taxonomy show "Off-by-one error"
  revdrill taxonomy search loop
  revdrill taxonomy export -f errors.json`,
	}
	c.AddCommand(e.newCategoriesCmd())
	c.AddCommand(e.newErrorsCmd())
	c.AddCommand(e.newShowCmd())
	c.AddCommand(e.newSearchCmd())
	c.AddCommand(e.newExportCmd())
	return c
}

// loadCatalog builds the catalog the same way the service does: the
// configured exercise.taxonomy file when set, otherwise the embedded
// default.
func loadCatalog() (*taxonomy.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if path := cfg.TaxonomyFile(); path != "" {
		return taxonomy.LoadFile(path)
	}
	return taxonomy.Default()
}
