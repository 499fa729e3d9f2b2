package main

import (
	"github.com/spf13/cobra"

	"texturematch/signalhandler"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "texturematch",
		Short:         "Match dumped textures to named references and locate thumbnails in atlases",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			signalhandler.SetupHandler()
			if err := ctx.setupLogging(cmd); err != nil {
				return err
			}
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Write a debug log")
	rootCmd.PersistentFlags().StringVar(&flags.logfile, "logfile", "", "Debug log path (default texturematch.log)")

	rootCmd.AddCommand(newIndexCommand(ctx))
	rootCmd.AddCommand(newMatchCommand(ctx))
	rootCmd.AddCommand(newLocateCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
