package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/autoapply/pkg/apply"
	"github.com/entrhq/autoapply/pkg/sites/linkedin"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session, even if the cached one is still valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd, true); err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			browser, err := a.launch()
			if err != nil {
				return err
			}
			defer func() {
				if err := browser.Close(); err != nil {
					a.logger.Warnf("Closing browser: %v", err)
				}
			}()

			session, err := apply.Open(cmd.Context(), browser, a.cfg, linkedin.Site(), store, a.logger.Named("apply"))
			if err != nil {
				return err
			}
			if !session.SignIn(cmd.Context()) {
				return errors.New("sign-in failed, see the log for details")
			}

			fmt.Fprintln(a.out, okStyle.Render("Signed in"), "session saved to", store.Path())
			return nil
		},
	}
}
