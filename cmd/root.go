package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nodepulse/nodepulse/config"
)

func SetVersion(version, commitHash string) {
	config.SetBuildInfo(version, commitHash)
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "nodepulse",
	}

	cmd.AddCommand(apiCmd())
	cmd.AddCommand(pollCmd())

	return cmd
}
