package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds tool-wide defaults. Command-line flags override these.
type Config struct {
	// Format is the default byte display format ("hex", "dec", "oct",
	// "bin", "ascii")
	Format string

	// ChunkBits is the default display chunk size in bits
	ChunkBits int

	// Width is the default bytes per output line
	Width int

	// HashAlgo is the checksum algorithm ("sha256" or "blake3")
	HashAlgo string

	// DiffEngine selects the whole-file patch engine ("bsdiff")
	DiffEngine string

	// ParallelThresholdBytes is the input size at which searches fan out
	ParallelThresholdBytes int

	// SearchChunkSizeBytes is the per-worker chunk size for parallel search
	SearchChunkSizeBytes int

	// ChecksumBlockSize is the block granularity for integrity reports
	ChecksumBlockSize int

	// MetricsAddr is the Prometheus listen address; empty disables serving
	MetricsAddr string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Format:                 "hex",
		ChunkBits:              8,
		Width:                  16,
		HashAlgo:               "sha256",
		DiffEngine:             "bsdiff",
		ParallelThresholdBytes: 1 << 20,   // 1 MiB
		SearchChunkSizeBytes:   256 << 10, // 256 KiB
		ChecksumBlockSize:      64 << 10,  // 64 KiB
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if format := os.Getenv("BINKIT_FORMAT"); format != "" {
		cfg.Format = format
	}

	if bits := os.Getenv("BINKIT_CHUNK_BITS"); bits != "" {
		if b, err := strconv.Atoi(bits); err == nil {
			cfg.ChunkBits = b
		}
	}

	if width := os.Getenv("BINKIT_WIDTH"); width != "" {
		if w, err := strconv.Atoi(width); err == nil {
			cfg.Width = w
		}
	}

	if hashAlgo := os.Getenv("BINKIT_HASH_ALGO"); hashAlgo != "" {
		cfg.HashAlgo = hashAlgo
	}

	if engine := os.Getenv("BINKIT_DIFF_ENGINE"); engine != "" {
		cfg.DiffEngine = engine
	}

	if threshold := os.Getenv("BINKIT_PARALLEL_THRESHOLD_KB"); threshold != "" {
		if kb, err := strconv.Atoi(threshold); err == nil {
			cfg.ParallelThresholdBytes = kb * 1024
		}
	}

	if chunkSize := os.Getenv("BINKIT_SEARCH_CHUNK_KB"); chunkSize != "" {
		if kb, err := strconv.Atoi(chunkSize); err == nil {
			cfg.SearchChunkSizeBytes = kb * 1024
		}
	}

	if blockSize := os.Getenv("BINKIT_CHECKSUM_BLOCK_SIZE"); blockSize != "" {
		if b, err := strconv.Atoi(blockSize); err == nil {
			cfg.ChecksumBlockSize = b
		}
	}

	if addr := os.Getenv("BINKIT_METRICS_ADDR"); addr != "" {
		cfg.MetricsAddr = addr
	}

	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Format {
	case "hex", "dec", "oct", "bin", "ascii":
	default:
		return fmt.Errorf("invalid format: %s (must be 'hex', 'dec', 'oct', 'bin', or 'ascii')", c.Format)
	}

	if c.ChunkBits <= 0 || c.ChunkBits > 64 {
		return fmt.Errorf("invalid chunk bits: %d (must be between 1 and 64)", c.ChunkBits)
	}

	if c.Width <= 0 {
		return fmt.Errorf("invalid width: %d (must be positive)", c.Width)
	}

	if c.HashAlgo != "sha256" && c.HashAlgo != "blake3" {
		return fmt.Errorf("invalid hash algorithm: %s (must be 'sha256' or 'blake3')", c.HashAlgo)
	}

	if c.DiffEngine != "bsdiff" {
		return fmt.Errorf("invalid diff engine: %s (must be 'bsdiff')", c.DiffEngine)
	}

	if c.ParallelThresholdBytes <= 0 {
		return fmt.Errorf("invalid parallel threshold: %d (must be positive)", c.ParallelThresholdBytes)
	}

	if c.SearchChunkSizeBytes <= 0 {
		return fmt.Errorf("invalid search chunk size: %d (must be positive)", c.SearchChunkSizeBytes)
	}

	if c.ChecksumBlockSize <= 0 {
		return fmt.Errorf("invalid checksum block size: %d (must be positive)", c.ChecksumBlockSize)
	}

	return nil
}
