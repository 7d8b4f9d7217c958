package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
)

const (
	vectorServerSeed = "b2a5f3f32a4d9c6ee7a8c1d33456677890abcdeffedcba0987654321ffeeddcc"
	vectorCommitHex  = "bb9acdc67f3f18f3345236a01f0e5072596657a9005c7d8a22cff061451a6b34"
)

func TestRunVector(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-server-seed", vectorServerSeed,
		"-client-seed", "candidate-hello",
		"-nonce", "42",
		"-drop-column", "6",
		"-commit", vectorCommitHex,
		"-draws", "5",
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}

	var out struct {
		CommitHex   string `json:"commitHex"`
		PegMapHash  string `json:"pegMapHash"`
		BinIndex    int    `json:"binIndex"`
		CommitMatch *bool     `json:"commitMatch"`
		Draws       []float64 `json:"draws"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.CommitHex != vectorCommitHex {
		t.Errorf("commit: got %s", out.CommitHex)
	}
	if out.PegMapHash != "aafa1a47d92b1b4d1433bcb4199cdf9598da5a31562b021be6eae81b7fe02f77" {
		t.Errorf("peg map hash: got %s", out.PegMapHash)
	}
	if out.BinIndex != 6 {
		t.Errorf("bin: got %d", out.BinIndex)
	}
	if out.CommitMatch == nil || !*out.CommitMatch {
		t.Error("expected commitMatch true")
	}

	wantDraws := []float64{0.1106166649, 0.7625129214, 0.0439292176, 0.4578678815, 0.3438999297}
	if len(out.Draws) != len(wantDraws) {
		t.Fatalf("expected %d draws, got %v", len(wantDraws), out.Draws)
	}
	for i, want := range wantDraws {
		if math.Abs(out.Draws[i]-want) > 1e-9 {
			t.Errorf("draw %d: got %.10f, want %.10f", i, out.Draws[i], want)
		}
	}
}

func TestRunRejectsDrawCount(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-server-seed", vectorServerSeed,
		"-client-seed", "candidate-hello",
		"-nonce", "42",
		"-draws", "91",
	}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestRunCommitMismatch(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-server-seed", vectorServerSeed,
		"-client-seed", "candidate-hello",
		"-nonce", "43",
		"-commit", vectorCommitHex,
	}, &stdout, &stderr)
	if code != 3 {
		t.Fatalf("expected exit 3, got %d", code)
	}
	if !strings.Contains(stdout.String(), `"commitMatch": false`) {
		t.Fatalf("expected commitMatch false in %s", stdout.String())
	}
}

func TestRunInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing seed", []string{"-client-seed", "a", "-nonce", "1"}},
		{"bad column", []string{"-server-seed", vectorServerSeed, "-client-seed", "a", "-nonce", "1", "-drop-column", "13"}},
		{"empty client seed", []string{"-server-seed", vectorServerSeed, "-nonce", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected no output, got %s", stdout.String())
			}
		})
	}
}
