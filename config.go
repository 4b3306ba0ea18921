package spool

import (
	"github.com/spool-dev/spool/pool"
	"github.com/spool-dev/spool/tempfile"
)

// Default sizes used when the corresponding Config fields are left unset.
const (
	// DefaultMemoryThreshold is the number of bytes kept in memory before
	// a Buffer overflows to disk.
	DefaultMemoryThreshold = 32 << 10 // 32KB
	// DefaultPageSize is the size of the pooled pages backing the in-memory
	// buffer.
	DefaultPageSize = 4 << 10 // 4KB
	// DefaultCopyBufferSize is the chunk size used to replay the spill file
	// when CopyTo is called with a non-positive bufSize.
	DefaultCopyBufferSize = 1 << 16 // 64KB
)

// Config holds configuration settings for a Buffer.
type Config struct {
	MemoryThreshold int                    // max bytes held in memory before overflowing to disk; 0 for the default
	BufferLimit     int64                  // hard cap on total buffered bytes (memory + disk); <= 0 for unlimited
	TempDir         func() (string, error) // resolves the spill directory; consulted at most once, on first spill
	PageSize        int                    // size of each pooled page in the memory buffer; 0 for the default
	Pool            pool.Pages             // page pool; nil for the process-wide pool shared per page size
	Metrics         *Metrics               // optional prometheus instrumentation; nil disables collection
}

// DefaultConfig returns the default configuration options used if none provided.
func DefaultConfig() *Config {
	return &Config{
		MemoryThreshold: DefaultMemoryThreshold,
		PageSize:        DefaultPageSize,
		TempDir:         defaultTempDir,
	}
}

// defaultTempDir is the default spill directory provider: the TempDirEnv
// environment variable with the OS temp directory as fallback.
func defaultTempDir() (string, error) {
	return tempfile.GetTempDir(""), nil
}

// mergeConfig takes a provided config and replaces any values not set with the defaults.
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	merged := *c
	if merged.MemoryThreshold <= 0 {
		merged.MemoryThreshold = d.MemoryThreshold
	}
	if merged.PageSize <= 0 {
		merged.PageSize = d.PageSize
	}
	if merged.TempDir == nil {
		merged.TempDir = d.TempDir
	}
	// BufferLimit, Pool and Metrics keep their zero values: unlimited,
	// shared pool, and no instrumentation.
	return &merged
}

// validateConfig rejects settings that cannot describe a working Buffer.
// It runs after mergeConfig, so defaults have already been filled in.
func validateConfig(c *Config) error {
	if c.BufferLimit > 0 && c.BufferLimit < int64(c.MemoryThreshold) {
		return &ConfigError{
			Field:  "BufferLimit",
			Value:  c.BufferLimit,
			Reason: "must be at least MemoryThreshold when set",
		}
	}
	return nil
}
