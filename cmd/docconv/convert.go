package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docconv/internal/convert"
)

func newConvertCmd(mode, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   mode + " INPUT [OUTPUT]",
		Short: short,
		Long:  long,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, mode, args)
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing output")
	cmd.Flags().Bool("versioned", false, "write <stem>_<date>_v<N> instead of overwriting")
	return cmd
}

func init() {
	rootCmd.AddCommand(
		newConvertCmd(convert.ModeDocxToMarkdown, "Convert a DOCX file to Markdown",
			`docx2md converts one .docx file to GitHub-flavored Markdown. Without
OUTPUT the result is written next to INPUT with a .md extension.`),
		newConvertCmd(convert.ModeMarkdownToDocx, "Convert a Markdown file to DOCX",
			`md2docx converts one .md or .markdown file to DOCX. Without OUTPUT the
result is written next to INPUT with a .docx extension.`),
	)
}

func runConvert(cmd *cobra.Command, modeName string, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	versioned, _ := cmd.Flags().GetBool("versioned")

	mode, err := convert.LookupMode(modeName)
	if err != nil {
		return err
	}
	conv, err := convert.NewConverter(mode, cfg.Converter, logger)
	if err != nil {
		return err
	}

	var dst string
	if len(args) == 2 {
		dst = args[1]
	}
	out, err := convert.ConvertFile(cmd.Context(), conv, mode, args[0], dst, convert.FileOptions{
		Force:     force,
		Versioned: versioned,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", out)
	return nil
}
