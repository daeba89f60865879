package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/habitwheel/cmd/serve"
	"github.com/tphakala/habitwheel/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "habitwheel",
		Short: "HabitWheel habit tracking server",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		rootCmd.PrintErrf("error setting up flags: %v\n", err)
	}

	serveCmd := serve.Command(settings)

	subcommands := []*cobra.Command{
		serveCmd,
	}

	rootCmd.AddCommand(subcommands...)

	// Running the bare binary starts the server, the common case.
	rootCmd.RunE = serveCmd.RunE

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
