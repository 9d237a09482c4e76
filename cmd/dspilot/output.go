package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

// report wraps a run's results with the counts scripts want without
// re-scanning the array.
type report struct {
	Results []domain.Result `json:"results" yaml:"results"`
	Total   int             `json:"total" yaml:"total"`
	Failed  int             `json:"failed" yaml:"failed"`
}

// printResults writes the run report to w in the requested format.
func printResults(w io.Writer, format string, results []domain.Result) error {
	rep := report{Results: results, Total: len(results), Failed: failedCount(results)}
	switch format {
	case "", "text":
		printText(w, rep)
		return nil
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(rep)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q, expected text, json or yaml", format)
	}
}

var (
	paintOK        = color.New(color.FgGreen).SprintFunc()
	paintFailed    = color.New(color.FgRed).SprintFunc()
	paintAmbiguous = color.New(color.FgYellow).SprintFunc()
)

func printText(w io.Writer, rep report) {
	for _, res := range rep.Results {
		fmt.Fprintf(w, "#%d %s", res.Index+1, res.Action)
		if res.Owner != "" {
			fmt.Fprintf(w, " %s", res.Owner)
		}
		if res.Algorithm != "" {
			fmt.Fprintf(w, " keytag=%d algorithm=%s", res.KeyTag, res.Algorithm)
		}
		fmt.Fprintf(w, " %s\n", paintState(res))

		for _, sub := range res.Submissions {
			fmt.Fprintf(w, "    %s", sub.RR)
			if sub.TaskRef != "" {
				fmt.Fprintf(w, "  task=%s state=%s", sub.TaskRef, sub.TaskState)
			}
			fmt.Fprintln(w)
		}
		if res.ErrorDetail != "" {
			fmt.Fprintf(w, "    error (%s): %s\n", res.ErrorKind, res.ErrorDetail)
		}
		if res.Ambiguous {
			fmt.Fprintln(w, "    outcome unknown, verify against the registry before retrying")
		}
	}
	fmt.Fprintf(w, "%d records, %d failed\n", rep.Total, rep.Failed)
}

func paintState(res domain.Result) string {
	s := string(res.State)
	switch {
	case res.Ambiguous:
		return paintAmbiguous(s)
	case res.Failed():
		return paintFailed(s)
	default:
		return paintOK(s)
	}
}

// failedCount tallies records that ended in the failed state.
func failedCount(results []domain.Result) int {
	n := 0
	for i := range results {
		if results[i].Failed() {
			n++
		}
	}
	return n
}
