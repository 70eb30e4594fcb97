package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/logging"
	"github.com/cdpr-lab/cablekit/pkg/sim"
)

func newSimulateCmd() *cobra.Command {
	var (
		flags    modelFlags
		q        string
		qdot     string
		wrench   string
		step     float64
		duration float64
		output   string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Integrate the equations of motion and emit a CSV trajectory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.simulate")

			profile, err := resolveProfile(flags.robotXML)
			if err != nil {
				return err
			}

			model, err := resolveModel(profile, flags)
			if err != nil {
				return err
			}

			state, err := parseState(model, q, qdot, "", wrench)
			if err != nil {
				return err
			}

			opts := sim.Options{
				Step:     profile.Sim.Step,
				Duration: profile.Sim.Duration,
				Wrench:   state.Wrench,
			}
			if cmd.Flags().Changed("step") {
				opts.Step = step
			}
			if cmd.Flags().Changed("duration") {
				opts.Duration = duration
			}

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			cw := csv.NewWriter(w)
			if err := cw.Write(csvHeader(model)); err != nil {
				return err
			}

			rows := 0
			err = sim.Run(cmd.Context(), model, state, opts, func(f sim.Frame) {
				_ = cw.Write(csvRow(f))
				rows++
			})
			cw.Flush()
			if err != nil {
				return err
			}
			if err := cw.Error(); err != nil {
				return err
			}

			logger.Info().Int("rows", rows).Str("model", model.Name()).Msg("simulation finished")
			if output != "" {
				fmt.Fprintf(os.Stderr, "wrote %d steps to %s\n", rows, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.model, "model", "", "Model to simulate (overrides the profile)")
	cmd.Flags().StringVar(&flags.modelFile, "model-file", "", "Go model file to load and simulate")
	cmd.Flags().StringVar(&flags.robotXML, "robot-xml", "", "XML robot description to simulate")
	cmd.Flags().StringVar(&q, "q", "", "Initial joint positions, comma-separated")
	cmd.Flags().StringVar(&qdot, "qdot", "", "Initial joint velocities, comma-separated")
	cmd.Flags().StringVar(&wrench, "wrench", "", "Constant external wrench, comma-separated")
	cmd.Flags().Float64Var(&step, "step", 0, "Integration step in seconds (overrides the profile)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Simulated time span in seconds (overrides the profile)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV output file (default stdout)")

	return cmd
}

func csvHeader(m dynamics.Model) []string {
	header := []string{"t"}
	for i := 0; i < m.DOF(); i++ {
		header = append(header, fmt.Sprintf("q%d", i))
	}
	for i := 0; i < m.DOF(); i++ {
		header = append(header, fmt.Sprintf("qdot%d", i))
	}
	for i := 0; i < m.CableCount(); i++ {
		header = append(header, fmt.Sprintf("l%d", i))
	}
	return header
}

func csvRow(f sim.Frame) []string {
	row := make([]string, 0, 1+len(f.Q)+len(f.QDot)+len(f.Lengths))
	row = append(row, strconv.FormatFloat(f.T, 'g', -1, 64))
	for _, v := range f.Q {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	for _, v := range f.QDot {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	for _, v := range f.Lengths {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return row
}
