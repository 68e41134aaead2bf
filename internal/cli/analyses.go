package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

func newAnalysesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyses",
		Short: "List analysis requests and decide submitted ones",
	}
	cmd.AddCommand(newAnalysesListCmd(), newDecideCmd(types.ActionComplete), newDecideCmd(types.ActionReject))
	return cmd
}

func newAnalysesListCmd() *cobra.Command {
	var (
		status string
		f      types.AnalysisFilter
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analyses visible to you",
		Long: "List analyses. Users see their own requests; moderators see all\n" +
			"submitted requests unless --status selects another state.",
		Args: cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			f.Status = types.Status(status)
			a := rt.app.Analyses
			if err := a.Fetch(cmd.Context(), f); err != nil {
				return failed(err, a.State().Error)
			}
			st := a.State()
			return render(cmd, st.Items, func(w io.Writer) { writeAnalyses(w, st.Items) })
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "draft, created, completed, or rejected")
	cmd.Flags().StringVar(&f.DateFrom, "from", "", "created on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&f.DateTo, "to", "", "created on or before YYYY-MM-DD")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "page size (default: server decides)")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "rows to skip")
	return cmd
}

// newDecideCmd builds "complete" or "reject". Moderator only.
func newDecideCmd(action types.CompleteAction) *cobra.Command {
	short := "Mark a submitted analysis as completed"
	if action == types.ActionReject {
		short = "Reject a submitted analysis"
	}
	return &cobra.Command{
		Use:   string(action) + " ANALYSIS_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			d := rt.app.Draft
			if err := d.CompleteDraft(cmd.Context(), args[0], action); err != nil {
				return failed(err, d.State().Error)
			}
			return renderDraft(cmd, d.State())
		}),
	}
}
