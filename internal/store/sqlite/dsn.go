package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const scheme = "sqlite://"

// parseDSN turns sqlite://<path>[?query] into the path form the driver
// expects. Relative paths are anchored at the working directory.
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, scheme)
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected %s", scheme)
	}
	if rest == memoryDSN {
		return rest, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	if path == "" {
		return "", fmt.Errorf("sqlite DSN has no path")
	}
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}

// IsDSN reports whether dsn selects the sqlite backend.
func IsDSN(dsn string) bool {
	return strings.HasPrefix(dsn, scheme)
}
