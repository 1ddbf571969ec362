package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storypipe/storypipe/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Get().String())
		},
	}
}
