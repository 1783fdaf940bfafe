package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linesim/linesim/sim/stats"
)

var analyzeConfidence float64

// analyzeCmd summarizes numeric samples, e.g. lead times exported from runs
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Summary statistics over numeric samples",
	Long:  "Reads numbers separated by commas, whitespace or newlines from the given files (or stdin) and prints mean, standard deviation, confidence interval, min, max, median and count as JSON. Lines starting with # are ignored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var samples []float64
		if len(args) == 0 {
			s, err := readSamples(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("stdin: %w", err)
			}
			samples = s
		}
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			s, err := readSamples(f)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			samples = append(samples, s...)
		}
		return analyzeSamples(samples, analyzeConfidence, cmd.OutOrStdout())
	},
}

// readSamples parses every number in r.
func readSamples(r io.Reader) ([]float64, error) {
	var out []float64
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == ';'
		})
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q is not a number", lineNo, f)
			}
			out = append(out, v)
		}
	}
	return out, sc.Err()
}

func analyzeSamples(samples []float64, level float64, out io.Writer) error {
	a, err := stats.New(samples)
	if err != nil {
		return err
	}
	summary, err := a.Summary(level)
	if err != nil {
		return err
	}
	return writeJSON(out, summary)
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeConfidence, "confidence", stats.DefaultConfidence, "Confidence level for the mean's interval")
}
