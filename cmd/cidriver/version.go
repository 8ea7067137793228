// Package main provides the cidriver CLI application.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/cidriver/pkg/version"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display detailed version information including build date and git commit.`,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Info()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cidriver version: %s\n", info["version"])
			fmt.Fprintf(out, "  build date: %s\n", info["buildDate"])
			fmt.Fprintf(out, "  git commit: %s\n", info["gitCommit"])
		},
	}
}
