package usecases

import (
	"go-drive-dedup/internal/domain/entities"
	"sort"
)

// DefaultPalette separates duplicate groups visually in the report
var DefaultPalette = []string{
	"lightsalmon", "lightpink", "lightcoral", "lightyellow", "peachpuff", "lavender",
	"lightcyan", "lemonchiffon", "powderblue", "cornsilk", "gainsboro",
}

// ReportFormatter flattens duplicate groups into ordered report rows
type ReportFormatter struct {
	palette []string
}

// NewReportFormatter creates a formatter; an empty palette selects DefaultPalette
func NewReportFormatter(palette []string) *ReportFormatter {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &ReportFormatter{palette: palette}
}

// Flatten emits one row per member, ordered by group index ascending and then by
// modified time descending. Ties keep their order within the group.
func (f *ReportFormatter) Flatten(groups *entities.DuplicateGroups) []entities.ReportRow {
	rows := make([]entities.ReportRow, 0, groups.FileCount())
	for _, group := range groups.Groups() {
		for _, file := range group.Files {
			rows = append(rows, entities.NewReportRow(group.Index, file))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GroupIndex != rows[j].GroupIndex {
			return rows[i].GroupIndex < rows[j].GroupIndex
		}
		return rows[i].ModifiedTime.After(rows[j].ModifiedTime)
	})
	return rows
}

// ColorFor returns the background colour of a group
func (f *ReportFormatter) ColorFor(groupIndex int) string {
	if groupIndex < 0 {
		groupIndex = -groupIndex
	}
	return f.palette[groupIndex%len(f.palette)]
}

// Colors returns one colour per row, parallel to rows
func (f *ReportFormatter) Colors(rows []entities.ReportRow) []string {
	colors := make([]string, len(rows))
	for i, row := range rows {
		colors[i] = f.ColorFor(row.GroupIndex)
	}
	return colors
}

// Format builds the full report
func (f *ReportFormatter) Format(groups *entities.DuplicateGroups) *entities.Report {
	rows := f.Flatten(groups)
	return &entities.Report{
		Rows:   rows,
		Colors: f.Colors(rows),
	}
}
