package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wgamage/snakeid-go/cmd/identify"
	"github.com/wgamage/snakeid-go/cmd/relations"
	"github.com/wgamage/snakeid-go/cmd/species"
	"github.com/wgamage/snakeid-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snakeid",
		Short: "SnakeID CLI",
		Long:  "Identify snake species from images and curate the species taxonomy.",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		identify.Command(settings),
		species.Command(settings),
		relations.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().IntVar(&settings.SnakeNet.Threads, "threads", viper.GetInt("snakenet.threads"), "Number of interpreter threads, 0 to use all cores")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
