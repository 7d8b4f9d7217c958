package config

import "time"

/* =========================
   NETWORK CONFIGURATION
========================= */

const (
	// Mantle Sepolia Testnet, used for commitment anchoring when enabled
	DefaultAnchorChainID = 5003

	// Gas settings for anchor transactions
	AnchorGasLimit    = 80000
	AnchorTxTimeout   = 30 * time.Second
	AnchorMaxGasPrice = 10000000000 // 10 Gwei
)

/* =========================
   REDIS TTL CONFIGURATION
========================= */

const (
	// Revealed rounds never change, so the cache only bounds memory
	// Key: plinko:round:{roundId}
	RevealedRoundTTL = 24 * time.Hour

	// Fixed rate-limit window
	// Key: plinko:ratelimit:{clientIp}
	RateLimitWindow = 1 * time.Minute
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	RedisRoundKey     = "plinko:round:%s"     // plinko:round:{roundId}
	RedisRateLimitKey = "plinko:ratelimit:%s" // plinko:ratelimit:{clientIp}
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	// Connection pool settings
	MaxOpenConns    = 25
	MinConns        = 5
	ConnMaxLifetime = 5 * time.Minute
	ConnectTimeout  = 10 * time.Second
)

/* =========================
   API CONFIGURATION
========================= */

const (
	// Recent rounds listing
	DefaultRecentRounds = 20
	MaxRecentRounds     = 100

	// Request bodies above this are rejected
	MaxBodyBytes = 1 << 20

	// Server timeouts
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second
	RequestTimeout    = 30 * time.Second
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	// WebSocket settings
	WSReadDeadline  = 60 * time.Second
	WSWriteDeadline = 10 * time.Second
	WSPingInterval  = 30 * time.Second

	// Buffer sizes
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSSendQueueSize   = 256

	// Message size limits
	MaxMessageSize = 512 * 1024 // 512KB

	// Rounds pushed to a new subscriber
	WSHistorySize = 20
)
