package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cached session",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the cached session and how long it stays valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}

			cache := store.Load()
			fmt.Fprintf(a.out, "%s %s\n", labelStyle.Render("Path:"), store.Path())
			if cache == nil {
				fmt.Fprintln(a.out, dimStyle.Render("No cached session"))
				return nil
			}
			fmt.Fprintf(a.out, "%s %d\n", labelStyle.Render("Cookies:"), len(cache.Cookies))
			fmt.Fprintf(a.out, "%s %s\n", labelStyle.Render("Captured:"), cache.CapturedAt.Local().Format(time.RFC1123))
			if cache.IsValid() {
				fmt.Fprintf(a.out, "%s %s\n", labelStyle.Render("Status:"),
					okStyle.Render(fmt.Sprintf("valid for %s", cache.Remaining().Round(time.Second))))
			} else {
				fmt.Fprintf(a.out, "%s %s\n", labelStyle.Render("Status:"), failStyle.Render("expired"))
			}
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			if err := store.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Removed", store.Path())
			return nil
		},
	})

	return cacheCmd
}
