package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printWatchTable(w io.Writer, entries []domain.WatchEntry) error {
	tw := newTabWriter(w)
	tw.writef("PRODUCT\tSTORE\tPART\n")
	for _, e := range entries {
		tw.writef("%s\t%s\t%s\n", e.Key.Product, e.Key.Store, e.PartNumber)
	}
	return tw.finish()
}

func printStoreResults(w io.Writer, stores []domain.StoreResult) error {
	tw := newTabWriter(w)
	tw.writef("STORE\tADDRESS\tPHONE\tEMAIL\n")
	for _, s := range stores {
		tw.writef("%s\t%s\t%s\t%s\n", s.Name, truncate(s.Address, 40), s.Phone, s.Email)
	}
	return tw.finish()
}

func printProductTable(w io.Writer, products []domain.Product) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPART\n")
	for _, p := range products {
		tw.writef("%s\t%s\t%s\n", p.ID, p.DisplayName, p.PartNumber)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
