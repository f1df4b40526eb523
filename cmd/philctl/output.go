package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/phil-crm/phil-console/internal/models"
)

type table struct {
	*tabwriter.Writer
}

func newTable(out io.Writer) table {
	return table{tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
}

func (t table) row(columns ...any) {
	values := make([]string, len(columns))
	for i, column := range columns {
		values[i] = fmt.Sprint(column)
	}
	fmt.Fprintln(t, strings.Join(values, "\t"))
}

func managerName(link models.Link) string {
	if link.Manager == nil {
		return "-"
	}
	if link.Manager.Name != "" {
		return link.Manager.Name
	}
	return link.Manager.ID
}

func writeLinks(out io.Writer, links []models.Link) error {
	t := newTable(out)
	t.row("ID", "PLATFORM", "STATUS", "PRIORITY", "MANAGER", "DETECTED", "URL")
	for _, link := range links {
		t.row(link.ID, link.Platform, link.Status, link.Priority, managerName(link), link.DetectedAt, link.URL)
	}
	return t.Flush()
}
