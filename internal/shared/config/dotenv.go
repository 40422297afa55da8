package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// loadEnvFiles applies KEY=VALUE files in order. Missing files are skipped;
// unreadable or malformed ones are returned in failed. Variables already in
// the environment, including ones set by an earlier file, are never
// overwritten.
func loadEnvFiles(paths ...string) (loaded []string, failed map[string]error) {
	for _, path := range paths {
		err := godotenv.Load(path)
		switch {
		case err == nil:
			loaded = append(loaded, path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[path] = err
		}
	}
	return loaded, failed
}
