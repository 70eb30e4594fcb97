package main

import (
	"fmt"

	tomlenc "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/cdpr-lab/cablekit/pkg/config"
	"github.com/cdpr-lab/cablekit/pkg/paths"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and scaffold robot profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write an editable default profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := paths.DefaultProfilePath()
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective profile after all layers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile("")
			if err != nil {
				return err
			}
			data, err := tomlenc.Marshal(profile)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	})

	return cmd
}
