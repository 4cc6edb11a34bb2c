package storage

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// ObjectKey builds "<unix nanos>-<random>-<slugged name>" for fileName.
func ObjectKey(fileName string, now time.Time) string {
	return fmt.Sprintf("%d-%d-%s", now.UnixNano(), rand.IntN(1e9), safeName(fileName))
}

var objectKeyPattern = regexp.MustCompile(`^\d+-\d+-[^/]+$`)

// IsObjectKey reports whether key has the shape ObjectKey produces.
func IsObjectKey(key string) bool {
	return objectKeyPattern.MatchString(key)
}

func safeName(fileName string) string {
	ext := filepath.Ext(fileName)
	base := slug.Make(strings.TrimSuffix(fileName, ext))
	if base == "" {
		base = "file"
	}
	if ext = slug.Make(strings.TrimPrefix(ext, ".")); ext != "" {
		return base + "." + ext
	}
	return base
}
