package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/docconv/internal/release"
)

var bumpVersionCmd = &cobra.Command{
	Use:   "bump-version [major|minor|patch]",
	Short: "Bump the semantic version in a project file",
	Long: `Bump-version increments the X.Y.Z version stored in --file (default
VERSION) and rewrites the file in place. The part defaults to patch; minor
resets patch and major resets both.

The file may be a bare version (VERSION), a YAML file with a top-level
version key, or any text file with a quoted version = "X.Y.Z" assignment
such as pyproject.toml.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: release.Parts,
	RunE: func(cmd *cobra.Command, args []string) error {
		var arg string
		if len(args) == 1 {
			arg = args[0]
		}
		part, err := release.ParsePart(arg)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")

		next, err := release.Bump(file, part)
		if err != nil {
			return err
		}
		logger.Info("version bumped", zap.String("file", file), zap.String("part", string(part)), zap.String("version", next))
		fmt.Fprintf(cmd.OutOrStdout(), "Version bumped to %s\n", next)
		return nil
	},
}

func init() {
	bumpVersionCmd.Flags().String("file", "VERSION", "file holding the version")
	rootCmd.AddCommand(bumpVersionCmd)
}
