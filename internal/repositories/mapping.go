package repositories

import (
	"fmt"

	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/services"
)

// MapRow converts one result row into a [models.Record] using the column order of schema.
//
// Cells beyond the row's length are null. Null or empty title, author and status become
// their placeholders; every other text field becomes "".
func MapRow(schema models.Schema, row []services.Cell) (models.Record, error) {
	cols := Columns(schema)
	cell := func(name string) services.Cell {
		for i, c := range cols {
			if c == name && i < len(row) {
				return row[i]
			}
		}
		return services.Cell{}
	}

	id, err := cell("ID").Int64()
	if err != nil {
		return models.Record{}, fmt.Errorf("invalid ID: %w", err)
	}

	record := models.Record{
		ID:         id,
		Title:      textOr(cell("Title"), models.NoTitle),
		Author:     textOr(cell("Author"), models.NoAuthor),
		Status:     textOr(cell("Status"), models.NoStatus),
		Transcript: textOr(cell("Transcript"), ""),
		Link:       textOr(cell("Link"), ""),
	}

	if schema == models.SchemaWide {
		record.Summary1 = textOr(cell("Summary1"), "")
		record.Summary2 = textOr(cell("Summary2"), "")
		record.Summary3 = textOr(cell("Summary3"), "")
	}

	return record, nil
}

func textOr(c services.Cell, fallback string) string {
	if s, ok := c.Text(); ok && s != "" {
		return s
	}
	return fallback
}
