package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdpr-lab/cablekit/pkg/docs"
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Show documentation topics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Println("Available topics:")
			for _, topic := range docs.Topics() {
				fmt.Printf("  %s\n", topic)
			}
			return nil
		}

		out, err := docs.Render(args[0])
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}
