package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docconv/internal/batch"
	"github.com/pdiddy/docconv/internal/convert"
)

var batchCmd = &cobra.Command{
	Use:   "batch MODE FOLDER",
	Short: "Convert every matching file in a folder",
	Long: `Batch converts every file in FOLDER that matches MODE (docx2md or md2docx).

Without --out-folder each output is written next to its source and replaces
any previous conversion. With --out-folder the input tree is mirrored below
that folder and existing outputs there are skipped unless --force or
--versioned is given. Per-file failures
are reported in the summary and do not change the exit status; only setup
errors (bad flags, unreadable folder, missing pandoc) exit non-zero.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.BoolP("recursive", "r", false, "search FOLDER recursively")
	f.Bool("dry-run", false, "list what would be converted without writing anything")
	f.Bool("force", false, "overwrite existing outputs")
	f.Bool("versioned", false, "write <stem>_<date>_v<N> outputs instead of overwriting")
	f.String("out-folder", "", "write outputs below this folder, mirroring the input tree")
	f.Bool("no-progress", false, "disable the progress bar")
	f.IntP("workers", "j", 1, "number of parallel conversions")
	f.String("report", "text", "summary format: text, yaml, or json")

	bindFlag("batch.recursive", f.Lookup("recursive"))
	bindFlag("batch.workers", f.Lookup("workers"))

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	versioned, _ := cmd.Flags().GetBool("versioned")
	outFolder, _ := cmd.Flags().GetString("out-folder")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	reportFlag, _ := cmd.Flags().GetString("report")

	format, err := batch.ParseFormat(reportFlag)
	if err != nil {
		return err
	}
	mode, err := convert.LookupMode(args[0])
	if err != nil {
		return err
	}

	// Dry runs never invoke the converter, so they work without pandoc.
	var conv convert.Converter = convert.ConverterFunc(func(context.Context, string, string) (string, error) {
		return "", fmt.Errorf("converter invoked during dry run")
	})
	if !dryRun {
		if conv, err = convert.NewConverter(mode, cfg.Converter, logger); err != nil {
			return err
		}
	}

	runCfg := batch.Config{
		InputRoot:    args[1],
		InputSuffix:  mode.InputSuffix,
		OutputRoot:   outFolder,
		OutputSuffix: mode.OutputSuffix,
		Recursive:    viper.GetBool("batch.recursive"),
		DryRun:       dryRun,
		Force:        force,
		Versioned:    versioned,
		ShowProgress: cfg.Batch.Progress && !noProgress,
		Workers:      viper.GetInt("batch.workers"),
	}

	results, err := batch.New(conv, batch.WithLogger(logger)).Run(cmd.Context(), runCfg)
	if err != nil {
		return err
	}
	return batch.WriteReport(cmd.OutOrStdout(), results, format)
}
