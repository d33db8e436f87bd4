package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// printTable renders rows as left-aligned columns. The first row is the
// header.
func printTable(w io.Writer, table [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, row := range table {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
