package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/autoapply/pkg/apply"
	"github.com/entrhq/autoapply/pkg/resume"
	"github.com/entrhq/autoapply/pkg/sites/linkedin"
)

func newApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply URL...",
		Short: "Apply to one or more job postings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, urls []string) error {
			if err := a.setup(cmd, true); err != nil {
				return err
			}
			if a.cfg.ResumePath != "" {
				if err := resume.Check(a.cfg.ResumePath); err != nil {
					return err
				}
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

			ctx := cmd.Context()
			session, err := apply.Open(ctx, browser, a.cfg, linkedin.Site(), store, a.logger.Named("apply"))
			if err != nil {
				return err
			}
			a.observe(session.Controller())

			outcomes := session.ApplyAll(ctx, urls)
			fmt.Fprintln(a.out, renderSummary(outcomes, a.cfg.SubmitEnabled))
			return resultOf(outcomes)
		},
	}
}

// observe logs state changes when running verbosely.
func (a *app) observe(c *apply.Controller) {
	if !a.verbose {
		return
	}
	logger := a.logger.Named("flow")
	c.Observer = func(from, to apply.State) {
		logger.Debugf("%s -> %s", from, to)
	}
}

func resultOf(outcomes []apply.Outcome) error {
	for _, o := range outcomes {
		if !o.OK() {
			return errAttemptsFailed
		}
	}
	return nil
}
