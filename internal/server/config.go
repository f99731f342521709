package server

import (
	"os"
	"strings"
)

// Config carries the runtime settings for the HTTP server. The chart
// directory is an explicit value threaded into the library rather than a
// process-wide constant, so tests can point the server anywhere.
type Config struct {
	Addr   string
	DTXDir string
}

// LoadConfigFromEnv builds a Config from environment variables, falling
// back to defaults that match local development.
func LoadConfigFromEnv() Config {
	addr := strings.TrimSpace(os.Getenv("VIRGO_ADDR"))
	if addr == "" {
		addr = ":8000"
	}

	dir := strings.TrimSpace(os.Getenv("DTX_FILES_DIR"))
	if dir == "" {
		dir = "dtx_files"
	}

	return Config{Addr: addr, DTXDir: dir}
}
