package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/docconv/internal/scaffold"
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Create starter folder layouts",
}

var scaffoldProjectCmd = &cobra.Command{
	Use:   "project NAME OUT_DIR",
	Short: "Create a documentation project skeleton",
	Long: `Project creates OUT_DIR/NAME with docs/, src/ and tests/ folders, a
README.md and a .gitignore. Running it again is safe: existing files are
kept unless --force is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		root, err := scaffold.Project(args[0], args[1], force)
		if err != nil {
			return err
		}
		logger.Info("project scaffold created", zap.String("path", root))
		fmt.Fprintf(cmd.OutOrStdout(), "Created project: %s\n", root)
		return nil
	},
}

func init() {
	scaffoldProjectCmd.Flags().Bool("force", false, "overwrite README.md and .gitignore")

	scaffoldCmd.AddCommand(scaffoldProjectCmd)
	rootCmd.AddCommand(scaffoldCmd)
}
