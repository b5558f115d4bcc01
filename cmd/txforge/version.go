package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/version"
)

func NewVersionCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Show version information including build details. Use --long for the full dependency list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.NewInfo("txforge")
			if long {
				info = info.WithBuildDeps()
			}

			if jsonMode {
				out, err := info.JSON()
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			}

			if long {
				fmt.Print(info.LongString())
			} else {
				fmt.Print(info.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Show detailed version info including build dependencies")

	return cmd
}
