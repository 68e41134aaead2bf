package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/spectro/internal/store"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

func newLoginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login LOGIN",
		Short: "Sign in to the analysis service",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			s := rt.app.Session
			if err := s.Login(cmd.Context(), args[0], password); err != nil {
				return failed(err, s.State().Error)
			}
			// Pick up a draft left over from an earlier session.
			if err := rt.app.Draft.RefreshCart(cmd.Context()); err != nil {
				rt.logger.Warn("loading cart after sign-in", "error", err)
			}
			return renderSession(cmd, s.State())
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var (
		password  string
		moderator bool
	)
	cmd := &cobra.Command{
		Use:   "register LOGIN",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			s := rt.app.Session
			creds := types.Credentials{Login: args[0], Password: password, IsModerator: moderator}
			if err := s.Register(cmd.Context(), creds); err != nil {
				return failed(err, s.State().Error)
			}
			return renderSession(cmd, s.State())
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&moderator, "moderator", false, "request the moderator role")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local session",
		Long: "Sign out on the server when possible. The local session, draft,\n" +
			"and catalog filters are cleared even if the server cannot be reached.",
		Args: cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if err := rt.app.Logout(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", err)
			}
			return render(cmd, rt.app.Session.State(), func(w io.Writer) {
				fmt.Fprintln(w, "Signed out")
			})
		}),
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rotate the session tokens",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			s := rt.app.Session
			if err := s.Refresh(cmd.Context()); err != nil {
				return failed(err, s.State().Error)
			}
			return renderSession(cmd, s.State())
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			return renderSession(cmd, rt.app.Session.State())
		}),
	}
}

func newProfileCmd() *cobra.Command {
	var patch types.ProfilePatch
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the account profile",
		Long:  "Without flags, show the profile. With --login or --password, update it.",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			s := rt.app.Session
			var (
				user *types.User
				err  error
			)
			if cmd.Flags().Changed("login") || cmd.Flags().Changed("password") {
				user, err = s.UpdateProfile(cmd.Context(), patch)
			} else {
				user, err = s.Profile(cmd.Context())
			}
			if err != nil {
				return failed(err, s.State().Error)
			}
			return render(cmd, user, func(w io.Writer) {
				tw := newTable(w)
				fmt.Fprintf(tw, "ID:\t%d\n", user.ID)
				fmt.Fprintf(tw, "Login:\t%s\n", user.Login)
				fmt.Fprintf(tw, "Moderator:\t%t\n", user.IsModerator)
				fmt.Fprintf(tw, "Created:\t%s\n", formatStamp(user.CreatedAt))
				tw.Flush()
			})
		}),
	}
	cmd.Flags().StringVar(&patch.Login, "login", "", "new login")
	cmd.Flags().StringVar(&patch.Password, "password", "", "new password")
	return cmd
}

func renderSession(cmd *cobra.Command, st store.SessionState) error {
	return render(cmd, st, func(w io.Writer) {
		if !st.IsAuthenticated {
			fmt.Fprintln(w, "Not signed in")
			return
		}
		role := "user"
		if st.IsModerator {
			role = "moderator"
		}
		fmt.Fprintf(w, "Signed in as %s (%s)\n", st.Username, role)
	})
}
