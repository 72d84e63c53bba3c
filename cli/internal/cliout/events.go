// Package cliout formats command output.
package cliout

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/courtflow/progression/event"
)

// Header is the header row of an event table.
var Header = []string{"VERSION", "AGGREGATE", "ID", "EVENT"}

// Row returns the table row of evt.
func Row(evt event.Event) []string {
	id, name, v := evt.Aggregate()
	return []string{strconv.Itoa(v), name, id.String(), evt.Name()}
}

// Events writes the events as a table to w.
func Events(w io.Writer, events []event.Event) error {
	tabw := tabwriter.NewWriter(w, 0, 2, 1, ' ', 0)
	writeRow(tabw, Header)
	for _, evt := range events {
		writeRow(tabw, Row(evt))
	}
	return tabw.Flush()
}

func writeRow(w io.Writer, row []string) {
	for i, col := range row {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
}
