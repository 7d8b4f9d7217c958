package contract

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log"
	"math/big"
	"strings"

	"plinkoServer/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// CommitAnchorABI is the single method the anchor contract exposes
const CommitAnchorABI = `[
	{
		"type": "function",
		"name": "anchorCommit",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "roundKey", "type": "bytes32"},
			{"name": "commit", "type": "bytes32"}
		],
		"outputs": []
	}
]`

const anchorMethod = "anchorCommit"

// CommitAnchor publishes round commitments to a contract so the server cannot
// swap a commitment after it was handed out
type CommitAnchor struct {
	Client      *ethclient.Client
	Contract    *bind.BoundContract
	ABI         abi.ABI
	Address     common.Address
	ChainID     *big.Int
	PrivateKey  *ecdsa.PrivateKey
	FromAddress common.Address
}

func parseAnchorABI() (abi.ABI, error) {
	contractABI, err := abi.JSON(strings.NewReader(CommitAnchorABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse contract ABI: %w", err)
	}
	return contractABI, nil
}

// NewCommitAnchor dials the RPC endpoint and loads the signing key
func NewCommitAnchor(cfg config.AnchorConfig) (*CommitAnchor, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("commit anchoring is not configured")
	}

	contractABI, err := parseAnchorABI()
	if err != nil {
		return nil, err
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to get public key")
	}

	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	fromAddress := crypto.PubkeyToAddress(*publicKeyECDSA)
	contractAddress := common.HexToAddress(cfg.ContractAddress)
	contract := bind.NewBoundContract(contractAddress, contractABI, client, client, client)

	log.Printf("✅ Commit anchor initialized - Contract: %s, Signer: %s", contractAddress.Hex(), fromAddress.Hex())

	return &CommitAnchor{
		Client:      client,
		Contract:    contract,
		ABI:         contractABI,
		Address:     contractAddress,
		ChainID:     big.NewInt(cfg.ChainID),
		PrivateKey:  privateKey,
		FromAddress: fromAddress,
	}, nil
}

// RoundKey is keccak256 of the round ID
func RoundKey(roundID string) [32]byte {
	return crypto.Keccak256Hash([]byte(roundID))
}

// commitBytes decodes a 64-char hex commitment
func commitBytes(commitHex string) ([32]byte, error) {
	var out [32]byte

	raw := common.FromHex(commitHex)
	if len(raw) != 32 || len(commitHex) != 64 {
		return out, fmt.Errorf("commit must be 32 bytes of hex, got %q", commitHex)
	}
	copy(out[:], raw)
	return out, nil
}

// PackAnchorCall encodes the anchorCommit calldata for a round
func PackAnchorCall(roundID, commitHex string) ([]byte, error) {
	contractABI, err := parseAnchorABI()
	if err != nil {
		return nil, err
	}

	commit, err := commitBytes(commitHex)
	if err != nil {
		return nil, err
	}

	input, err := contractABI.Pack(anchorMethod, RoundKey(roundID), commit)
	if err != nil {
		return nil, fmt.Errorf("failed to pack input: %w", err)
	}
	return input, nil
}

// AnchorCommit sends anchorCommit(roundKey, commit) and returns the tx hash
// without waiting for it to be mined
func (c *CommitAnchor) AnchorCommit(ctx context.Context, roundID, commitHex string) (common.Hash, error) {
	commit, err := commitBytes(commitHex)
	if err != nil {
		return common.Hash{}, err
	}
	roundKey := RoundKey(roundID)

	auth, err := bind.NewKeyedTransactorWithChainID(c.PrivateKey, c.ChainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	auth.Value = big.NewInt(0) // non-payable

	nonce, err := c.Client.PendingNonceAt(ctx, c.FromAddress)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}
	auth.Nonce = new(big.Int).SetUint64(nonce)

	gasPrice, err := c.Client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}
	if gasPrice.Cmp(big.NewInt(config.AnchorMaxGasPrice)) > 0 {
		return common.Hash{}, fmt.Errorf("gas price %s exceeds maximum %d", gasPrice, config.AnchorMaxGasPrice)
	}
	auth.GasPrice = gasPrice

	input, err := c.ABI.Pack(anchorMethod, roundKey, commit)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack input: %w", err)
	}

	gasLimit, err := c.Client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.FromAddress,
		To:   &c.Address,
		Data: input,
	})
	if err != nil {
		log.Printf("⚠️ Gas estimation failed, using default: %v", err)
		auth.GasLimit = config.AnchorGasLimit
	} else {
		auth.GasLimit = gasLimit + (gasLimit * 20 / 100) // +20% buffer
	}

	tx, err := c.Contract.Transact(auth, anchorMethod, roundKey, commit)
	if err != nil {
		log.Printf("❌ anchorCommit failed for round %s: %v", roundID, err)
		return common.Hash{}, err
	}

	log.Printf("📤 anchorCommit tx sent for round %s: %s", roundID, tx.Hash().Hex())
	return tx.Hash(), nil
}

// Close closes the client connection
func (c *CommitAnchor) Close() {
	c.Client.Close()
}
