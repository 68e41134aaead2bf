package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/spectro/internal/store"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart or add pigments to it",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart summary",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			d := rt.app.Draft
			if err := d.RefreshCart(cmd.Context()); err != nil {
				return failed(err, d.State().Error)
			}
			return renderDraft(cmd, d.State())
		}),
	}

	add := &cobra.Command{
		Use:   "add PIGMENT_ID",
		Short: "Add a pigment to the cart, creating a draft when needed",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			id, err := parsePigmentID(args[0])
			if err != nil {
				return err
			}
			d := rt.app.Draft
			if err := d.AddPigment(cmd.Context(), id); err != nil {
				return failed(err, d.State().Error)
			}
			return renderDraft(cmd, d.State())
		}),
	}

	cmd.AddCommand(show, add)
	return cmd
}

// draftCmd holds the --analysis flag shared by the draft subcommands.
type draftCmd struct {
	analysisID string
}

// resolve returns the analysis to act on: the --analysis flag, or the
// cart's draft.
func (c *draftCmd) resolve(ctx context.Context, d *store.Draft) (string, error) {
	if c.analysisID != "" {
		return c.analysisID, nil
	}
	if err := d.RefreshCart(ctx); err != nil {
		return "", failed(err, d.State().Error)
	}
	id := d.State().AnalysisID
	if id == "" {
		return "", types.ErrNoActiveCart
	}
	return id, nil
}

// run wraps a draft operation: resolve the analysis, run op, and render the
// resulting state.
func (c *draftCmd) run(op func(ctx context.Context, d *store.Draft, id string, args []string) error) func(*cobra.Command, []string) error {
	return withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
		d := rt.app.Draft
		id, err := c.resolve(cmd.Context(), d)
		if err != nil {
			return err
		}
		if err := op(cmd.Context(), d, id, args); err != nil {
			return failed(err, d.State().Error)
		}
		return renderDraft(cmd, d.State())
	})
}

func newDraftCmd() *cobra.Command {
	dc := &draftCmd{}
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Work with a draft analysis request",
		Long: "Inspect and edit a draft analysis request. Subcommands act on the\n" +
			"cart's draft unless --analysis names another one.",
	}
	cmd.PersistentFlags().StringVarP(&dc.analysisID, "analysis", "a", "", "analysis id (default: the cart's draft)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the analysis with its pigments",
		Args:  cobra.NoArgs,
		RunE: dc.run(func(ctx context.Context, d *store.Draft, id string, _ []string) error {
			return d.LoadDraft(ctx, id)
		}),
	}

	var (
		name     string
		spectrum string
	)
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Change the name or spectrum of a draft",
		Args:  cobra.NoArgs,
	}
	edit.RunE = dc.run(func(ctx context.Context, d *store.Draft, id string, _ []string) error {
		var patch types.AnalysisPatch
		if edit.Flags().Changed("name") {
			patch.Name = &name
		}
		if edit.Flags().Changed("spectrum") {
			patch.Spectrum = &spectrum
		}
		return d.UpdateMetadata(ctx, id, patch)
	})
	edit.Flags().StringVar(&name, "name", "", "analysis name")
	edit.Flags().StringVar(&spectrum, "spectrum", "", "measured spectrum")

	var (
		comment string
		percent float64
	)
	item := &cobra.Command{
		Use:   "item PIGMENT_ID",
		Short: "Change the comment or percent of a line item",
		Args:  cobra.ExactArgs(1),
	}
	item.RunE = dc.run(func(ctx context.Context, d *store.Draft, id string, args []string) error {
		pigmentID, err := parsePigmentID(args[0])
		if err != nil {
			return err
		}
		var patch types.LineItemPatch
		if item.Flags().Changed("comment") {
			patch.Comment = &comment
		}
		if item.Flags().Changed("percent") {
			patch.Percent = &percent
		}
		return d.UpdateLineItem(ctx, id, pigmentID, patch)
	})
	item.Flags().StringVar(&comment, "comment", "", "line item comment")
	item.Flags().Float64Var(&percent, "percent", 0, "share of the pigment, 0 to 100")

	remove := &cobra.Command{
		Use:   "remove PIGMENT_ID",
		Short: "Remove a pigment from a draft",
		Args:  cobra.ExactArgs(1),
		RunE: dc.run(func(ctx context.Context, d *store.Draft, id string, args []string) error {
			pigmentID, err := parsePigmentID(args[0])
			if err != nil {
				return err
			}
			return d.RemovePigment(ctx, id, pigmentID)
		}),
	}

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit a draft for analysis",
		Args:  cobra.NoArgs,
		RunE: dc.run(func(ctx context.Context, d *store.Draft, id string, _ []string) error {
			return d.SubmitDraft(ctx, id)
		}),
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Discard a draft",
		Args:  cobra.NoArgs,
		RunE: dc.run(func(ctx context.Context, d *store.Draft, id string, _ []string) error {
			return d.DeleteDraft(ctx, id)
		}),
	}

	cmd.AddCommand(show, edit, item, remove, submit, del)
	return cmd
}

// draftView is the JSON form of the draft state.
type draftView struct {
	store.DraftState
	Phase types.Phase `json:"phase"`
}

func renderDraft(cmd *cobra.Command, st store.DraftState) error {
	return render(cmd, draftView{DraftState: st, Phase: st.Phase()}, func(w io.Writer) {
		fmt.Fprintf(w, "Phase: %s\n", st.Phase())
		writeDraft(w, st)
	})
}
