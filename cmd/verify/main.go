// Command verify recomputes a round offline from its disclosed values.
//
//	verify -server-seed <hex> -client-seed <seed> -nonce <nonce> -drop-column 6 [-commit <hex>] [-draws 5]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"plinkoServer/crypto"
	"plinkoServer/game"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// verifyOutput is the verification plus the optional commitment check
type verifyOutput struct {
	*game.Verification
	CommitMatch *bool     `json:"commitMatch,omitempty"`
	Draws       []float64 `json:"draws,omitempty"`
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	serverSeed := fs.String("server-seed", "", "revealed server seed (64 hex chars)")
	clientSeed := fs.String("client-seed", "", "client seed used to start the round")
	nonce := fs.String("nonce", "", "round nonce")
	dropColumn := fs.Int("drop-column", game.CenterColumn, "drop column (0-12)")
	commit := fs.String("commit", "", "commitment published before the round, checked if set")
	draws := fs.Int("draws", 0, "also print the first n RNG draws of the combined seed")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *draws < 0 || *draws > game.DrawsPerRound {
		fmt.Fprintf(stderr, "❌ -draws must be between 0 and %d\n", game.DrawsPerRound)
		return 2
	}

	verification, err := game.Verify(game.RoundInputs{
		ServerSeed: *serverSeed,
		ClientSeed: *clientSeed,
		Nonce:      *nonce,
		DropColumn: *dropColumn,
	}, nil)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}

	out := verifyOutput{Verification: verification}
	if *commit != "" {
		match := crypto.VerifyCommit(*serverSeed, *nonce, *commit)
		out.CommitMatch = &match
	}
	if *draws > 0 {
		out.Draws = game.SamplePRNG(verification.CombinedSeed, *draws)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "❌ failed to encode result: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))

	if out.CommitMatch != nil && !*out.CommitMatch {
		fmt.Fprintln(stderr, "⚠️  commitment does not match the revealed seed and nonce")
		return 3
	}
	return 0
}
