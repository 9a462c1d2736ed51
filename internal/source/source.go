package source

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Stdin is the sentinel identity of the live standard-input source.
const Stdin = "-"

// Open returns the decoded byte stream for one source identity: stdin for
// the live sentinel, a transparently-decompressed reader for .gz files, and
// the file itself otherwise.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return os.Stdin, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("cannot read gzip header of %s: %w", path, err)
		}
		return &gzipReadCloser{zr: zr, f: f}, nil
	}

	return f, nil
}

// gzipReadCloser closes both the decompressor and the underlying file.
type gzipReadCloser struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// Expand resolves glob patterns in the argument list to file paths,
// supporting recursive patterns like /var/log/**/*.log. Arguments that
// match nothing (or are not patterns at all) are kept literally so the
// open failure is reported against the name the user gave. Duplicates are
// dropped, first occurrence wins.
func Expand(args []string) []string {
	var paths []string
	seen := make(map[string]bool)

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if arg == Stdin {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil || len(matches) == 0 {
			add(arg)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}
	return paths
}
