// Package species implements commands to inspect the species taxonomy.
package species

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wgamage/snakeid-go/internal/app"
	"github.com/wgamage/snakeid-go/internal/conf"
)

// Command creates the species command with its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "species",
		Short: "Inspect the species taxonomy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(settings)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [id]",
		Short: "Show one species with its lookalikes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id uint
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid species id %q", args[0])
			}
			return runShow(settings, id)
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

	all, err := rt.Curation.ListSpecies()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLASS\tENGLISH NAME\tSINHALA NAME\tIMAGE")
	for i := range all {
		sp := &all[i]
		label := "-"
		if sp.ClassLabel != nil {
			label = *sp.ClassLabel
		}
		image := "no"
		if sp.HasImage() {
			image = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			sp.ID, label, sp.EnglishName, sp.SinhalaName, image)
	}
	return w.Flush()
}

func runShow(settings *conf.Settings, id uint) error {
	rt, err := app.Build(settings, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	sp, err := rt.Curation.GetSpecies(id)
	if err != nil {
		return err
	}

	fmt.Printf("Species %d: %s", sp.ID, sp.EnglishName)
	if sp.SinhalaName != "" {
		fmt.Printf(" (%s)", sp.SinhalaName)
	}
	fmt.Println()
	if sp.ClassLabel != nil {
		fmt.Printf("Class label: %s\n", *sp.ClassLabel)
	}
	if sp.EnglishDescription != "" {
		fmt.Printf("\n%s\n", sp.EnglishDescription)
	}

	related, err := rt.Curation.RelatedOf(id)
	if err != nil {
		return err
	}
	if len(related) > 0 {
		fmt.Println("\nCommonly confused with:")
		for i := range related {
			fmt.Printf("  %d. %s\n", related[i].ID, related[i].EnglishName)
		}
	}
	return nil
}
