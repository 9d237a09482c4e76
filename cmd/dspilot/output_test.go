package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

func sampleResults() []domain.Result {
	return []domain.Result{
		{
			Index:     0,
			Action:    domain.ActionSubmit,
			Owner:     "example.net.",
			KeyTag:    55648,
			Algorithm: "ECDSAP256SHA256",
			State:     domain.StateReported,
			Submissions: []domain.Submission{
				{
					RR:         "example.net. 3600 IN DS 55648 13 2 B4C8C1FE2E7477127B27115656AD6256F424625BF5C1E2770CE6D6E37DF61D17",
					DigestType: "SHA-256",
					TaskRef:    "tasks/a1",
					TaskState:  domain.TaskPending,
				},
			},
		},
		{
			Index:       1,
			Action:      domain.ActionSubmit,
			State:       domain.StateFailed,
			ErrorKind:   "format",
			ErrorDetail: "parsing record: record has 3 fields",
		},
	}
}

func TestPrintResultsText(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	if err := printResults(&buf, "text", sampleResults()); err != nil {
		t.Fatalf("printResults() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"#1 submit example.net. keytag=55648 algorithm=ECDSAP256SHA256 reported",
		"task=tasks/a1 state=pending",
		"#2 submit failed",
		"error (format): parsing record: record has 3 fields",
		"2 records, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResultsTextMarksAmbiguous(t *testing.T) {
	color.NoColor = true
	results := sampleResults()
	results[1].Ambiguous = true

	var buf bytes.Buffer
	if err := printResults(&buf, "text", results); err != nil {
		t.Fatalf("printResults() error = %v", err)
	}
	if !strings.Contains(buf.String(), "outcome unknown") {
		t.Errorf("text output missing ambiguity warning:\n%s", buf.String())
	}
}

func TestPrintResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printResults(&buf, "json", sampleResults()); err != nil {
		t.Fatalf("printResults() error = %v", err)
	}

	var rep report
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if rep.Total != 2 || rep.Failed != 1 {
		t.Errorf("report counts = %d/%d, expected 2/1", rep.Total, rep.Failed)
	}
	if rep.Results[0].Owner != "example.net." {
		t.Errorf("Results[0].Owner = %q, expected example.net.", rep.Results[0].Owner)
	}
	if rep.Results[0].Submissions[0].TaskRef != "tasks/a1" {
		t.Errorf("Submissions[0].TaskRef = %q, expected tasks/a1", rep.Results[0].Submissions[0].TaskRef)
	}
	if rep.Results[1].ErrorKind != "format" {
		t.Errorf("Results[1].ErrorKind = %q, expected format", rep.Results[1].ErrorKind)
	}
}

func TestPrintResultsYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := printResults(&buf, "yaml", sampleResults()); err != nil {
		t.Fatalf("printResults() error = %v", err)
	}

	var rep report
	if err := yaml.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if rep.Total != 2 || rep.Failed != 1 {
		t.Errorf("report counts = %d/%d, expected 2/1", rep.Total, rep.Failed)
	}
	if rep.Results[0].KeyTag != 55648 {
		t.Errorf("Results[0].KeyTag = %d, expected 55648", rep.Results[0].KeyTag)
	}
}

func TestPrintResultsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := printResults(&buf, "xml", nil); err == nil {
		t.Error("printResults() accepted unknown format")
	}
}
