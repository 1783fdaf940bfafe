package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/linesim/linesim/sim/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a scenario file without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseVars(scenarioVars)
		if err != nil {
			return err
		}
		return validateScenario(scenarioPath, vars, cmd.OutOrStdout())
	},
}

// validateScenario prints one line per configuration problem and fails if any exist.
func validateScenario(path string, vars map[string]string, out io.Writer) error {
	if path == "" {
		return fmt.Errorf("--scenario is required")
	}
	cfg, err := scenario.Load(path, vars)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		problems := 0
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, e := range joined.Unwrap() {
				fmt.Fprintf(out, "  %v\n", e)
				problems++
			}
		} else {
			fmt.Fprintf(out, "  %v\n", err)
			problems = 1
		}
		return fmt.Errorf("%s: %d configuration problem(s)", path, problems)
	}
	fmt.Fprintf(out, "%s: ok (%d entities, %d flow steps, %d loads)\n",
		path, len(cfg.Entities), len(cfg.ProcessFlow), cfg.Source.NumberOfLoads)
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (.yaml, .yml, .json, .hcl)")
	validateCmd.Flags().StringArrayVar(&scenarioVars, "var", nil, "HCL variable override name=value (repeatable)")
}
