package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}

func writeOutput(w io.Writer, format string, value any, table func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case outputJSON:
		return writeJSON(w, value)
	case outputYAML:
		return writeYAML(w, value)
	case outputTable, "":
		return table(w)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func printAssessments(w io.Writer, assessments []domain.Assessment) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TOOL\tSCORE\tRUN\tREASON\tHITS")
	for _, a := range assessments {
		hits := append(append([]string(nil), a.StrongHits...), a.WeakHits...)
		fmt.Fprintf(tw, "%s\t%d/%d\t%t\t%s\t%s\n", a.Tool, a.Score, a.Threshold, a.ShouldRun, a.Reason, strings.Join(hits, ", "))
	}
	return tw.Flush()
}
