// export.go implements the "revdrill taxonomy export" command.
//
// Design: The export is the catalog's own JSON document format, so the
// output of "taxonomy export -f my_errors.json" can be edited and wired
// back in via the exercise.taxonomy config key. Without -f the document
// goes to stdout for piping; -o json is redundant here and treated the same.

package taxonomy

import (
	"fmt"
	"os"

	"github.com/jpl-au/revdrill/cmd"
	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as JSON",
		Long: `Export the full error catalog as a JSON document.

The output round-trips: save it, edit it, and point the exercise.taxonomy
config key at the result to train against a custom catalog.

  revdrill taxonomy export                  # to stdout
  revdrill taxonomy export -f errors.json   # to a file`,
		Args: cobra.NoArgs,
		RunE: e.runExport,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Write to a file instead of stdout")
	return c
}

func (e *Extension) runExport(c *cobra.Command, _ []string) error {
	file, _ := c.Flags().GetString(extension.FlagFile)

	cat, err := loadCatalog()
	if err != nil {
		log.Event("taxonomy:export", "export").User(cmd.User()).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("taxonomy export: %w", err))
	}

	data, err := cat.Encode()

	log.Event("taxonomy:export", "export").
		User(cmd.User()).
		Detail("file", file).
		Detail("errors", cat.Len()).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("taxonomy export: %w", err))
	}

	if file == "" {
		fmt.Fprintln(cmd.Out(), string(data))
		return nil
	}

	if err := os.WriteFile(file, data, 0644); err != nil {
		return cmd.PrintJSONError(fmt.Errorf("taxonomy export to %q: %w", file, err))
	}
	fmt.Fprintf(cmd.Out(), "Exported %d errors to %s\n", cat.Len(), file)
	return nil
}
