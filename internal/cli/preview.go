package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/extractor"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
)

const (
	defaultPreviewRows     = 10
	defaultIdentityTimeout = 10 * time.Second
	maxCellWidth           = 40
)

func newPreviewCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Print the first rows of a CSV file as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ingestFile(args[0])
			if err != nil {
				return err
			}

			rows := v.GetInt("rows")
			if rows < 0 {
				return fmt.Errorf("--rows must not be negative")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPreview(res.Table, rows))
			fmt.Fprintf(out, "%d rows x %d columns (%s)\n", res.Table.Rows, len(res.Table.Columns), res.Encoding)
			return nil
		},
	}

	cmd.Flags().Int("rows", defaultPreviewRows, "number of rows to show (0 shows all)")
	_ = v.BindPFlag("rows", cmd.Flags().Lookup("rows"))

	return cmd
}

func renderPreview(t *models.Table, limit int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := table.Row{}
	configs := make([]table.ColumnConfig, 0, len(t.Columns))
	for i, c := range t.Columns {
		header = append(header, c.Name)
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxCellWidth}
		if c.Kind == models.KindNumeric {
			cfg.Align = text.AlignRight
		}
		configs = append(configs, cfg)
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range extractor.PreviewRows(t, limit) {
		r := make(table.Row, len(row.Values))
		for i, v := range row.Values {
			if v == nil {
				r[i] = ""
				continue
			}
			r[i] = v
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
