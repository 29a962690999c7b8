package cli

import (
	"github.com/spf13/cobra"
)

func newJarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jars",
		Short: "Resolve, check, and download jar artifacts",
	}

	cmd.AddCommand(newJarsCheckCmd())
	cmd.AddCommand(newJarsGetCmd())
	cmd.AddCommand(newJarsGetPkgCmd())

	return cmd
}
