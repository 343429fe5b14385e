// Package identify implements the command to identify a snake species from
// an image file.
package identify

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wgamage/snakeid-go/internal/app"
	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/errors"
	"github.com/wgamage/snakeid-go/internal/identify"
)

// Command creates the identify command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "identify [image file]",
		Short: "Identify the snake species in an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings, args[0])
		},
	}
}

func run(settings *conf.Settings, imagePath string) error {
	rt, err := app.Build(settings, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	data, err := os.ReadFile(imagePath) //nolint:gosec // G304: path is a user-supplied CLI argument
	if err != nil {
		return fmt.Errorf("reading image %s: %w", imagePath, err)
	}

	res, err := rt.Identify.Identify(data)
	if err != nil {
		if errors.Is(err, identify.ErrUnclassifiedResult) {
			fmt.Println("No curated species matches this image.")
			return nil
		}
		return err
	}

	printResult(&res)
	return nil
}

func printResult(res *identify.Result) {
	sp := res.Species
	fmt.Printf("Species: %s", sp.EnglishName)
	if sp.SinhalaName != "" {
		fmt.Printf(" (%s)", sp.SinhalaName)
	}
	fmt.Printf("\nConfidence: %.1f%%\n", res.Prediction.Confidence*100)
	if sp.EnglishDescription != "" {
		fmt.Printf("\n%s\n", sp.EnglishDescription)
	}

	if len(res.RelatedSpecies) > 0 {
		fmt.Println("\nCommonly confused with:")
		for i := range res.RelatedSpecies {
			rel := &res.RelatedSpecies[i]
			fmt.Printf("  %d. %s", rel.ID, rel.EnglishName)
			if rel.SinhalaName != "" {
				fmt.Printf(" (%s)", rel.SinhalaName)
			}
			fmt.Println()
		}
	}
}
