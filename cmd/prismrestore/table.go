package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"prismrestore/internal/ledger"
	"prismrestore/internal/pipeline"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderSummary(s pipeline.Summary, dryRun bool) string {
	rows := [][]string{
		{"Sidecars", fmt.Sprint(s.Sidecars)},
	}
	if dryRun {
		rows = append(rows, []string{"Would materialize", fmt.Sprint(s.Planned)})
	} else {
		rows = append(rows,
			[]string{"Materialized", fmt.Sprint(s.Materialized)},
			[]string{"Copied", humanize.Bytes(uint64(s.BytesCopied))},
		)
	}
	rows = append(rows,
		[]string{"Already materialized", fmt.Sprint(s.AlreadyMaterialized)},
		[]string{"Missing thumbnails", fmt.Sprint(s.MissingThumbnails)},
		[]string{"Malformed sidecars", fmt.Sprint(s.Malformed)},
	)
	if s.Collisions > 0 {
		rows = append(rows, []string{"Collisions", fmt.Sprint(s.Collisions)})
	}
	if s.Failed > 0 {
		rows = append(rows, []string{"Failed copies", fmt.Sprint(s.Failed)})
	}
	if s.RestoreWarnings > 0 {
		rows = append(rows, []string{"Metadata not restored", fmt.Sprint(s.RestoreWarnings)})
	}
	if s.TraversalErrors > 0 {
		rows = append(rows, []string{"Unreadable entries", fmt.Sprint(s.TraversalErrors)})
	}
	rows = append(rows,
		[]string{"Duration", s.Duration.Round(time.Millisecond).String()},
		[]string{"Run", s.RunID},
	)
	return renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderHistory(entries []ledger.Entry, now time.Time) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		restore := string(e.RestoreStatus)
		if e.RestoreError != "" {
			restore += ": " + truncate(e.RestoreError, 40)
		}
		taken := ""
		if !e.ExifTakenAt.IsZero() {
			taken = e.ExifTakenAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			e.Destination,
			e.Identifier,
			humanize.Bytes(uint64(e.SizeBytes)),
			restore,
			taken,
			humanize.RelTime(e.UpdatedAt, now, "ago", "from now"),
		})
	}
	return renderTable(
		[]string{"Destination", "Identifier", "Size", "Metadata", "Taken", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max-1] + "…"
}
