// Package docio reads and writes network documents. Paths ending in ".sz"
// hold snappy framed streams; "-" means standard input or output.
package docio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// CompressedExt marks snappy-compressed documents
const CompressedExt = ".sz"

// Stdio is the path naming standard input or output
const Stdio = "-"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// IsCompressed reports whether path names a snappy-compressed document
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// Read returns the document stored at path, decompressing when needed
func Read(path string) ([]byte, error) {
	if path == Stdio {
		return io.ReadAll(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadFrom(f, IsCompressed(path))
}

// ReadFrom reads a whole document from r
func ReadFrom(r io.Reader, compressed bool) ([]byte, error) {
	if compressed {
		r = snappy.NewReader(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

// Write stores data at path, compressing when path ends in ".sz".
// The file is written to a temporary sibling and renamed into place.
func Write(path string, data []byte) error {
	if path == Stdio {
		_, err := stdout.Write(data)
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".waternet-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := WriteTo(tmp, data, IsCompressed(path)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set document permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move document into place: %w", err)
	}
	return nil
}

// WriteTo writes data to w, optionally as a snappy framed stream
func WriteTo(w io.Writer, data []byte, compressed bool) error {
	if !compressed {
		bw := bufio.NewWriter(w)
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return bw.Flush()
	}

	sw := snappy.NewBufferedWriter(w)
	if _, err := sw.Write(data); err != nil {
		sw.Close()
		return fmt.Errorf("failed to write compressed document: %w", err)
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("failed to flush compressed document: %w", err)
	}
	return nil
}
