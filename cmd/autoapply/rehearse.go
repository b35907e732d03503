package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/entrhq/autoapply/pkg/apply"
	"github.com/entrhq/autoapply/pkg/browser/replay"
	"github.com/entrhq/autoapply/pkg/cookiecache"
	"github.com/entrhq/autoapply/pkg/sites/linkedin"
)

func newRehearseCmd(a *app) *cobra.Command {
	var pagesDir string

	cmd := &cobra.Command{
		Use:   "rehearse --pages DIR URL...",
		Short: "Run the apply flow against saved HTML pages",
		Long: `rehearse replays a directory of saved pages instead of a live browser.
The directory holds a manifest.yaml mapping URLs to HTML files:

  pages:
    - url: https://www.linkedin.com/jobs/view/123/
      file: posting.html

Every browser action is printed afterwards. The real session cache is never
read or written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, urls []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			b, err := replay.LoadDir(pagesDir)
			if err != nil {
				return err
			}

			scratch, err := os.MkdirTemp("", "autoapply-rehearse-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(scratch)
			store, err := cookiecache.NewFileStore(filepath.Join(scratch, "session.json"), a.logger.Named("cookiecache"))
			if err != nil {
				return err
			}

			cfg := *a.cfg
			if cfg.Username == "" {
				cfg.Username = "rehearsal@example.com"
			}
			if cfg.Password == "" {
				cfg.Password = "rehearsal"
			}

			session, err := apply.Open(cmd.Context(), b, &cfg, linkedin.Site(), store, a.logger.Named("apply"))
			if err != nil {
				return err
			}
			a.observe(session.Controller())

			outcomes := session.ApplyAll(cmd.Context(), urls)

			fmt.Fprintln(a.out, titleStyle.Render("Actions"))
			for i, action := range b.Actions() {
				fmt.Fprintf(a.out, "%s %s\n", dimStyle.Render(fmt.Sprintf("%3d", i+1)), action)
			}
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, renderSummary(outcomes, cfg.SubmitEnabled))
			return resultOf(outcomes)
		},
	}

	cmd.Flags().StringVar(&pagesDir, "pages", "", "directory with manifest.yaml and saved pages")
	_ = cmd.MarkFlagRequired("pages")
	return cmd
}
