package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/spectro/internal/store"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render writes v as JSON in --json mode and calls text otherwise.
func render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), v)
	}
	text(cmd.OutOrStdout())
	return nil
}

// displayError carries the message a store chose for the user while
// keeping the underlying error for errors.Is.
type displayError struct {
	msg string
	err error
}

func (e *displayError) Error() string { return e.msg }
func (e *displayError) Unwrap() error { return e.err }

// failed returns err with the store's user-facing message when one is set.
func failed(err error, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" || msg == err.Error() {
		return err
	}
	return &displayError{msg: msg, err: err}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// formatStamp shortens an RFC 3339 timestamp to its date.
func formatStamp(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(types.DateLayout)
	}
	return orDash(s)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateTime)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func writePigments(w io.Writer, pigments []types.Pigment) {
	if len(pigments) == 0 {
		fmt.Fprintln(w, "No pigments found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tBRIEF\tCREATED")
	for _, p := range pigments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, orDash(p.Color), orDash(p.Brief), formatStamp(p.CreatedAt))
	}
	tw.Flush()
}

func writePigment(w io.Writer, p *types.Pigment) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Color:\t%s\n", orDash(p.Color))
	fmt.Fprintf(tw, "Brief:\t%s\n", orDash(p.Brief))
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(p.Description))
	fmt.Fprintf(tw, "Specs:\t%s\n", orDash(p.Specs))
	fmt.Fprintf(tw, "Created:\t%s\n", formatStamp(p.CreatedAt))
	tw.Flush()
}

func writeFilters(w io.Writer, st store.CatalogState) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Search:\t%s\n", orDash(st.Search))
	fmt.Fprintf(tw, "Color:\t%s\n", orDash(st.Color))
	fmt.Fprintf(tw, "From:\t%s\n", orDash(st.DateRange.From))
	fmt.Fprintf(tw, "To:\t%s\n", orDash(st.DateRange.To))
	fmt.Fprintf(tw, "Source:\t%s\n", orDash(string(st.Origin)))
	fmt.Fprintf(tw, "Last updated:\t%s\n", formatTime(st.LastUpdated))
	tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateTime)
}

func writeDraft(w io.Writer, st store.DraftState) {
	if st.Application == nil {
		if !st.HasActiveCart {
			fmt.Fprintln(w, "No active draft")
			return
		}
		fmt.Fprintf(w, "Draft %s: %d item(s)\n", st.AnalysisID, st.ItemsCount)
		return
	}
	a := st.Application
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", a.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", orDash(a.Name))
	fmt.Fprintf(tw, "Spectrum:\t%s\n", orDash(a.Spectrum))
	fmt.Fprintf(tw, "Status:\t%s\n", a.Status)
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(a.CreatedAt))
	fmt.Fprintf(tw, "Formed:\t%s\n", formatTimePtr(a.FormedAt))
	fmt.Fprintf(tw, "Completed:\t%s\n", formatTimePtr(a.CompletedAt))
	tw.Flush()

	if len(st.Pigments) == 0 {
		fmt.Fprintln(w, "\nNo pigments in this analysis")
		return
	}
	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "PIGMENT\tNAME\tPERCENT\tCOMMENT")
	for _, item := range st.Pigments {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\n", item.PigmentID, item.Name, item.Percent, orDash(item.Comment))
	}
	tw.Flush()
}

func writeAnalyses(w io.Writer, items []types.Analysis) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No analyses found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tCREATED\tFORMED\tCOMPLETED")
	for _, a := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, orDash(a.Name), a.Status, formatTime(a.CreatedAt), formatTimePtr(a.FormedAt), formatTimePtr(a.CompletedAt))
	}
	tw.Flush()
}
