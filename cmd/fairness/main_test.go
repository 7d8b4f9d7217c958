package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestSimulateCountsEveryRound(t *testing.T) {
	report, err := simulate(6, 200)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	total := 0
	for _, count := range report.Bins {
		total += count
	}
	if total != 200 || report.Rounds != 200 {
		t.Fatalf("expected 200 rounds, got %d in bins and %d counted", total, report.Rounds)
	}

	// Every bin pays at least 1x
	if rtp := report.RTP(); rtp < 1 || rtp > 18 {
		t.Fatalf("RTP %.4f outside the paytable range", rtp)
	}
}

func TestRTPEmptyReport(t *testing.T) {
	if rtp := (&Report{}).RTP(); rtp != 0 {
		t.Fatalf("expected 0, got %f", rtp)
	}
}

func TestRunSingleColumn(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run([]string{"-rounds", "20", "-column", "0"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Drop column  0") {
		t.Fatalf("missing report header in %s", stdout.String())
	}
	if strings.Contains(stdout.String(), "Drop column  1") {
		t.Fatal("simulated columns that were not requested")
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"-rounds", "0"},
		{"-column", "13"},
	}

	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 2 {
			t.Fatalf("%v: expected exit 2, got %d", args, code)
		}
	}
}
