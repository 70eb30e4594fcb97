package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/style"
)

func newEvalCmd() *cobra.Command {
	var (
		flags  modelFlags
		q      string
		qdot   string
		qddot  string
		wrench string
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the five dynamics terms at a joint state",
		Long: `Evaluate cable lengths, mass matrix, Coriolis vector, gravity
vector, and Jacobian for one joint state. Vectors are comma-separated
and default to zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(flags.robotXML)
			if err != nil {
				return err
			}

			model, err := resolveModel(profile, flags)
			if err != nil {
				return err
			}

			state, err := parseState(model, q, qdot, qddot, wrench)
			if err != nil {
				return err
			}

			out := dynamics.Eval(model, state)

			if asYAML {
				return writeEvalYAML(model, out)
			}
			fmt.Print(style.RenderEval(model, out))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.model, "model", "", "Model to evaluate (overrides the profile)")
	cmd.Flags().StringVar(&flags.modelFile, "model-file", "", "Go model file to load and evaluate")
	cmd.Flags().StringVar(&flags.robotXML, "robot-xml", "", "XML robot description to evaluate")
	cmd.Flags().StringVar(&q, "q", "", "Joint positions, comma-separated")
	cmd.Flags().StringVar(&qdot, "qdot", "", "Joint velocities, comma-separated")
	cmd.Flags().StringVar(&qddot, "qddot", "", "Joint accelerations, comma-separated")
	cmd.Flags().StringVar(&wrench, "wrench", "", "External wrench, comma-separated")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Emit machine-readable YAML instead of a table")

	return cmd
}

// evalReport is the YAML shape of an evaluation.
type evalReport struct {
	Model    string      `yaml:"model"`
	DOF      int         `yaml:"dof"`
	Cables   int         `yaml:"cables"`
	Lengths  []float64   `yaml:"cable_lengths"`
	Mass     [][]float64 `yaml:"mass_matrix"`
	Coriolis []float64   `yaml:"coriolis"`
	Gravity  []float64   `yaml:"gravity"`
	Jacobian [][]float64 `yaml:"jacobian"`
}

func writeEvalYAML(m dynamics.Model, b *dynamics.Buffers) error {
	report := evalReport{
		Model:    m.Name(),
		DOF:      m.DOF(),
		Cables:   m.CableCount(),
		Lengths:  b.Lengths,
		Mass:     unflatten(b.Mass, m.DOF(), m.DOF()),
		Coriolis: b.Coriolis,
		Gravity:  b.Gravity,
		Jacobian: unflatten(b.Jacobian, m.CableCount(), m.DOF()),
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func unflatten(flat []float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = flat[r*cols : (r+1)*cols]
	}
	return out
}
