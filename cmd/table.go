package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/s0up4200/marquee/catalog"
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
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
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

// renderMovieTable lays movies out one per row, marking watchlisted ids
func renderMovieTable(movies []catalog.CatalogItem, watchlisted map[string]bool) string {
	headers := []string{"ID", "Title", "Year", "Genres", "Runtime", "Rating", "Saved"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		saved := ""
		if watchlisted[m.ID] {
			saved = "★"
		}
		rows = append(rows, []string{
			m.ID,
			m.Title,
			fmt.Sprintf("%d", m.ReleaseYear),
			strings.Join(m.GenreNames(), ", "),
			m.FormattedRuntime(),
			fmt.Sprintf("%.1f", m.Rating),
			saved,
		})
	}
	return renderTable(headers, rows, aligns)
}
