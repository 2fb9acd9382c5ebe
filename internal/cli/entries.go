package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cmsconsole "github.com/kailas-cloud/cmsconsole/pkg/sdk"
)

func (a *app) entriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Browse collection entries",
	}
	cmd.AddCommand(a.entriesListCommand())
	return cmd
}

func (a *app) entriesListCommand() *cobra.Command {
	var params cmsconsole.ListParams
	var titleKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries of a collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireScope(); err != nil {
				return err
			}
			c, err := a.newClient(a.flags, a.out)
			if err != nil {
				return err
			}
			page, err := c.Entries(a.flags.project, a.flags.collection).List(cmd.Context(), params)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tUPDATED")
			for _, e := range page.Items {
				status := "draft"
				if e.Published {
					status = "published"
					if e.HasDraft() {
						status = "changed"
					}
				}
				updated := ""
				if !e.UpdatedAt.IsZero() {
					updated = e.UpdatedAt.Format("2006-01-02 15:04")
				}
				title, _ := e.WorkingData()[titleKey].(string)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, status, title, updated)
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("write table: %w", err)
			}
			faint.Fprintf(a.out, "page %d, %d of %d entries\n", page.Page, len(page.Items), page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&params.Search, "search", "", "full-text filter")
	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 20, "entries per page (max 100)")
	cmd.Flags().StringVar(&titleKey, "title-key", "title", "field shown in the TITLE column")
	return cmd
}
