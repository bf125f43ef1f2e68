package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docconv/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show document metadata",
}

var inspectDocxCmd = &cobra.Command{
	Use:   "docx FILE",
	Short: "Show the core properties of a DOCX file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectDocx,
}

func init() {
	inspectDocxCmd.Flags().Bool("json", false, "output metadata as JSON")
	inspectDocxCmd.Flags().Bool("yaml", false, "output metadata as YAML")
	inspectDocxCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	inspectCmd.AddCommand(inspectDocxCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runInspectDocx(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	meta, err := inspect.DocxMetadata(args[0])
	if err != nil {
		return err
	}
	logger.Debug("docx metadata extracted", zap.String("path", meta.Path), zap.String("title", meta.Title))

	w := cmd.OutOrStdout()
	switch {
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	case asYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(meta); err != nil {
			return err
		}
		return enc.Close()
	default:
		return printMetadata(w, meta)
	}
}

func printMetadata(w io.Writer, m inspect.Metadata) error {
	rows := []struct{ label, value string }{
		{"Path", m.Path},
		{"Title", m.Title},
		{"Author", m.Author},
		{"Last modified by", m.LastModifiedBy},
		{"Created", m.Created},
		{"Modified", m.Modified},
	}
	for _, r := range rows {
		v := r.value
		if v == "" {
			v = "-"
		}
		if _, err := fmt.Fprintf(w, "%-17s %s\n", r.label+":", v); err != nil {
			return err
		}
	}
	return nil
}
