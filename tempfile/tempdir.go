package tempfile

import (
	"os"
	"sync"
)

// TempDirEnv names the environment variable consulted when picking a spill
// directory and no explicit directory was configured.
const TempDirEnv = "SPOOL_TMPDIR"

var (
	fallbackDir  string
	fallbackOnce sync.Once
)

// GetTempDir returns the directory spill files should be created in.
// A non-empty dir wins if usable. Otherwise the TempDirEnv environment
// variable is consulted, falling back to the OS default temp directory.
// The fallback is discovered once per process and cached.
func GetTempDir(dir string) string {
	if dir != "" && isDirectoryUsable(dir) {
		return dir
	}
	if env := os.Getenv(TempDirEnv); env != "" && isDirectoryUsable(env) {
		return env
	}
	fallbackOnce.Do(func() {
		fallbackDir = os.TempDir()
	})
	return fallbackDir
}

// isDirectoryUsable checks if a directory exists and is a directory, or does
// not exist yet and could be created. Writability is not probed here; creating
// the spill file is the real test.
func isDirectoryUsable(dir string) bool {
	stat, err := os.Stat(dir)
	if err != nil {
		return os.IsNotExist(err)
	}
	return stat.IsDir()
}
