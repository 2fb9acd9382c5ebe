package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cmsconsole/internal/version"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cmsctl", version.String())
		},
	}
}
