package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"filmlog/internal/archive"
)

// column is one table column: its header and how cells align.
type column struct {
	header string
	align  text.Align
}

var archiveColumns = []column{
	{"ID", text.AlignRight},
	{"Title", text.AlignLeft},
	{"Watched", text.AlignLeft},
	{"Theater", text.AlignLeft},
}

var cacheColumns = []column{
	{"Query", text.AlignLeft},
	{"Title", text.AlignLeft},
	{"Year", text.AlignRight},
	{"TMDB", text.AlignRight},
	{"Cached", text.AlignLeft},
	{"Status", text.AlignLeft},
}

// renderArchive draws entries in commit order.
func renderArchive(entries []archive.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.ID,
			entry.Record.Title,
			formatDate(entry.Record),
			yesNo(entry.Record.SeenInTheater),
		})
	}
	return renderTable(archiveColumns, rows)
}

// renderTable pads short rows with empty cells. Headers stay left aligned.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: col.align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
