package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/docconv/internal/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check pandoc, container runtime, and write access",
	Long: `Doctor reports whether this machine can run conversions: the pandoc
version on PATH, an available docker or podman runtime for the container
backend, and write access to the working directory. It is informational
and always exits 0.`,
	Run: func(cmd *cobra.Command, args []string) {
		rep := doctor.Run(cmd.Context(), cmd.OutOrStdout(), cfg.Converter)
		if !rep.OK() {
			logger.Warn("environment check found problems")
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
