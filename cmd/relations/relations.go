// Package relations implements commands to inspect and bulk-import the
// lookalike relation graph.
package relations

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wgamage/snakeid-go/internal/app"
	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/curation"
	"github.com/wgamage/snakeid-go/internal/datastore"
)

// operator is the local CLI user; commands run with curation rights.
var operator = curation.Actor{IsAdmin: true}

// Command creates the relations command with its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relations",
		Short: "Inspect and import the lookalike relation graph",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every relation with resolved species names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(settings)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import [file.yaml]",
		Short: "Import relation pairs from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(settings, args[0])
		},
	})

	return cmd
}

func runList(settings *conf.Settings) error {
	rt, err := app.Build(settings, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	infos, err := rt.Curation.AllRelations(operator)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\t\tRELATED")
	for i := range infos {
		info := &infos[i]
		fmt.Fprintf(w, "%d %s\t->\t%d %s\n",
			info.SpeciesID, info.SpeciesName,
			info.RelatedSpeciesID, info.RelatedSpeciesName)
	}
	return w.Flush()
}

func runImport(settings *conf.Settings, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a user-supplied CLI argument
	if err != nil {
		return fmt.Errorf("reading import file %s: %w", path, err)
	}

	var pairs []datastore.RelationPair
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("parsing import file %s: %w", path, err)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("import file %s contains no relation pairs", path)
	}

	rt, err := app.Build(settings, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.Curation.BatchAddRelations(operator, pairs)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d relations, skipped %d existing.\n", res.Added, res.Skipped)
	for i := range res.Errors {
		item := &res.Errors[i]
		fmt.Printf("  rejected (%d,%d): %s\n",
			item.Pair.SpeciesID, item.Pair.RelatedSpeciesID, item.Reason)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d relation pairs were rejected", len(res.Errors))
	}
	return nil
}
