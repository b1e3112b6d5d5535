package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytsum/internal/models"
)

var (
	_ list.Item = recordItem{}
)

// recordItem wraps [models.Record] to implement [list.Item].
type recordItem struct {
	record models.Record
}

func (i recordItem) FilterValue() string { return i.record.Author + " " + i.record.Title }
func (i recordItem) Title() string       { return i.record.Title }
func (i recordItem) Description() string {
	desc := i.record.Author
	if i.record.Status != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.record.Status)
	}
	return desc
}

func recordItems(records []models.Record) []list.Item {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{record: r}
	}
	return items
}
