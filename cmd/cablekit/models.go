package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdpr-lab/cablekit/pkg/registry"
	"github.com/cdpr-lab/cablekit/pkg/style"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List registered dynamics models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := make([]style.ModelInfo, 0, len(registry.ModelNames()))
		for _, name := range registry.ModelNames() {
			info := style.ModelInfo{Name: name}
			// Factories that need options cannot be instantiated for
			// display; list them by name only.
			if m, err := registry.NewModel(name, nil); err == nil {
				info.Description = m.Description()
				info.DOF = m.DOF()
				info.Cables = m.CableCount()
			}
			infos = append(infos, info)
		}

		fmt.Print(style.RenderModelList(infos))
		return nil
	},
}
