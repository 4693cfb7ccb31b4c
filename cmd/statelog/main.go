package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName = "statelog"
)

func main() {
	command := NewStateLogCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewStateLogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [flags] [options]", appName),
		Short: fmt.Sprintf("%s records an audit trail of state-machine transitions.", appName),
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(NewCmdDemo())
	cmd.AddCommand(NewCmdMigrate())

	return cmd
}
