package contract

import (
	"bytes"
	"encoding/hex"
	"testing"

	"plinkoServer/config"

	"github.com/ethereum/go-ethereum/crypto"
)

const testCommit = "bb9acdc67f3f18f3345236a01f0e5072596657a9005c7d8a22cff061451a6b34"

func TestPackAnchorCall(t *testing.T) {
	input, err := PackAnchorCall("round-1", testCommit)
	if err != nil {
		t.Fatalf("PackAnchorCall failed: %v", err)
	}

	if len(input) != 4+32+32 {
		t.Fatalf("expected 68 bytes of calldata, got %d", len(input))
	}

	selector := crypto.Keccak256([]byte("anchorCommit(bytes32,bytes32)"))[:4]
	if !bytes.Equal(input[:4], selector) {
		t.Fatalf("selector mismatch: %x != %x", input[:4], selector)
	}

	roundKey := RoundKey("round-1")
	if !bytes.Equal(input[4:36], roundKey[:]) {
		t.Fatalf("round key mismatch: %x", input[4:36])
	}

	commit, _ := hex.DecodeString(testCommit)
	if !bytes.Equal(input[36:], commit) {
		t.Fatalf("commit mismatch: %x", input[36:])
	}
}

func TestRoundKey(t *testing.T) {
	a := RoundKey("round-1")
	b := RoundKey("round-1")
	c := RoundKey("round-2")

	if a != b {
		t.Fatal("round key is not deterministic")
	}
	if a == c {
		t.Fatal("different rounds share a key")
	}
	if want := crypto.Keccak256Hash([]byte("round-1")); a != want {
		t.Fatalf("expected keccak256 of the id, got %x", a)
	}
}

func TestPackAnchorCallRejectsBadCommit(t *testing.T) {
	tests := []struct {
		name   string
		commit string
	}{
		{"empty", ""},
		{"short", "abcd"},
		{"not hex", "zz9acdc67f3f18f3345236a01f0e5072596657a9005c7d8a22cff061451a6b34"},
		{"prefixed", "0x" + testCommit[:62]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PackAnchorCall("round-1", tt.commit); err == nil {
				t.Fatalf("expected error for %q", tt.commit)
			}
		})
	}
}

func TestNewCommitAnchorRequiresConfig(t *testing.T) {
	if _, err := NewCommitAnchor(config.AnchorConfig{}); err == nil {
		t.Fatal("expected error without configuration")
	}

	_, err := NewCommitAnchor(config.AnchorConfig{
		RPCURL:          "http://localhost:8545",
		ContractAddress: "0x43a01A18a2C947179595A7b17bDCc3d88ecF04F5",
		PrivateKey:      "not-a-key",
		ChainID:         config.DefaultAnchorChainID,
	})
	if err == nil {
		t.Fatal("expected error for invalid private key")
	}
}
