package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/spectro/internal/store"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// filterFlags are the catalog criteria flags shared by "pigments list" and
// "filters set".
type filterFlags struct {
	search string
	color  string
	from   string
	to     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "match name or brief (case-insensitive)")
	cmd.Flags().StringVar(&f.color, "color", "", "match color (case-insensitive)")
	cmd.Flags().StringVar(&f.from, "from", "", "created on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "created on or before YYYY-MM-DD")
}

// apply stores the flags the user set in the catalog; the catalog persists
// each change.
func (f *filterFlags) apply(cmd *cobra.Command, c *store.Catalog) error {
	changed := cmd.Flags().Changed
	if changed("search") {
		if err := c.SetSearch(f.search); err != nil {
			return systemError("saving filters: %w", err)
		}
	}
	if changed("color") {
		if err := c.SetColor(f.color); err != nil {
			return systemError("saving filters: %w", err)
		}
	}
	if changed("from") || changed("to") {
		r := c.State().DateRange
		if changed("from") {
			r.From = f.from
		}
		if changed("to") {
			r.To = f.to
		}
		if err := c.SetDateRange(r); err != nil {
			return fmt.Errorf("date range %q..%q: %w", r.From, r.To, err)
		}
	}
	return nil
}

func newPigmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pigments",
		Short: "Browse the pigment catalog",
	}
	cmd.AddCommand(newPigmentsListCmd(), newPigmentsShowCmd())
	return cmd
}

func newPigmentsListCmd() *cobra.Command {
	var (
		ff   filterFlags
		mock bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pigments matching the saved filters",
		Long: "List catalog pigments. Filter flags replace the saved criteria before\n" +
			"the query. When the service cannot be reached the built-in sample\n" +
			"catalog is shown instead.",
		Args: cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			c := rt.app.Catalog
			if cmd.Flags().Changed("mock") {
				c.SetMockMode(mock)
			}
			if err := ff.apply(cmd, c); err != nil {
				return err
			}
			c.Fetch(cmd.Context())
			st := c.State()
			return render(cmd, st, func(w io.Writer) {
				if st.Origin == store.OriginFallback {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning: service unavailable, showing sample catalog")
				}
				writePigments(w, st.Pigments)
			})
		}),
	}
	ff.register(cmd)
	cmd.Flags().BoolVar(&mock, "mock", false, "use the built-in sample catalog while signed out (remembered)")
	return cmd
}

func newPigmentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one pigment",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			id, err := parsePigmentID(args[0])
			if err != nil {
				return err
			}
			p, origin, err := rt.app.Catalog.Pigment(cmd.Context(), id)
			if err != nil {
				return err
			}
			return render(cmd, p, func(w io.Writer) {
				if origin == store.OriginFallback {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning: service unavailable, showing sample catalog")
				}
				writePigment(w, p)
			})
		}),
	}
}

func newFiltersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Show or change the saved catalog filters",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the saved filters",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			return renderFilters(cmd, rt.app.Catalog.State())
		}),
	}

	var ff filterFlags
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the saved filters",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if err := ff.apply(cmd, rt.app.Catalog); err != nil {
				return err
			}
			return renderFilters(cmd, rt.app.Catalog.State())
		}),
	}
	ff.register(set)

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Clear the saved filters",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if err := rt.app.Catalog.Reset(); err != nil {
				return systemError("saving filters: %w", err)
			}
			return renderFilters(cmd, rt.app.Catalog.State())
		}),
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}

func renderFilters(cmd *cobra.Command, st store.CatalogState) error {
	return render(cmd, st.Filters, func(w io.Writer) { writeFilters(w, st) })
}

func parsePigmentID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: pigment id %q", types.ErrInvalidData, s)
	}
	return id, nil
}
