package main

import (
	"fmt"
	"os"
	"path/filepath"

	"genelens/internal/engine"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagOut string

type columnReport struct {
	Path        string            `yaml:"path"`
	Rows        int               `yaml:"rows"`
	Identifier  string            `yaml:"identifier,omitempty"`
	DisplayName string            `yaml:"display_name,omitempty"`
	Fields      map[string]string `yaml:"fields"`
	Unresolved  []string          `yaml:"unresolved,omitempty"`
}

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Show how dataset headers resolve to canonical fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		rep := columnReport{
			Path:   cfg.DataPath,
			Rows:   ds.Len(),
			Fields: make(map[string]string),
		}
		rep.Identifier, _ = ds.IdentifierColumn()
		rep.DisplayName, _ = ds.DisplayNameColumn()
		cols := ds.Columns()
		for _, f := range engine.Fields {
			if c, ok := cols.Lookup(f); ok {
				rep.Fields[string(f)] = c.Name
			} else {
				rep.Unresolved = append(rep.Unresolved, string(f))
			}
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <symbol>",
	Short: "Write every row for a gene as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		payload, name, err := ds.Export(args[0])
		if err != nil {
			return err
		}

		if flagOut == "" {
			_, err := cmd.OutOrStdout().Write(payload)
			return err
		}
		out := flagOut
		if info, err := os.Stat(out); err == nil && info.IsDir() {
			out = filepath.Join(out, name)
		}
		if err := os.WriteFile(out, payload, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		log.Info().Str("file", out).Msg("Export written")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output file or directory (default stdout)")
}
