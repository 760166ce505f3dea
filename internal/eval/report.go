package eval

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable formats sweep records as a grid-order table.
func RenderTable(records []Record, strategy string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	headers := recordHeaders(strategy)
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, rec := range records {
		fields := recordFields(rec, strategy)
		row := make(table.Row, len(fields))
		for i, f := range fields {
			row[i] = f
		}
		tw.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// WriteCSV serializes sweep records with one header row, matching the
// evaluation export format.
func WriteCSV(w io.Writer, records []Record, strategy string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(recordHeaders(strategy)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(recordFields(rec, strategy)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func recordHeaders(strategy string) []string {
	if strategy == "maxsim" {
		return []string{"weight", "conf_thresh", "precision", "recall", "f1", "clips"}
	}
	return []string{"alpha", "conf_thresh", "caption_sim_thresh", "precision", "recall", "f1", "clips"}
}

func recordFields(rec Record, strategy string) []string {
	if strategy == "maxsim" {
		return []string{
			fmt.Sprintf("%.2f", rec.Weight),
			fmt.Sprintf("%.2f", rec.ConfThreshold),
			fmt.Sprintf("%.3f", rec.Precision),
			fmt.Sprintf("%.3f", rec.Recall),
			fmt.Sprintf("%.3f", rec.F1),
			fmt.Sprintf("%d", rec.Clips),
		}
	}
	return []string{
		fmt.Sprintf("%.2f", rec.Alpha),
		fmt.Sprintf("%.2f", rec.ConfThreshold),
		fmt.Sprintf("%.2f", rec.SimThreshold),
		fmt.Sprintf("%.3f", rec.Precision),
		fmt.Sprintf("%.3f", rec.Recall),
		fmt.Sprintf("%.3f", rec.F1),
		fmt.Sprintf("%d", rec.Clips),
	}
}
