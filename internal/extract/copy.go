// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// copyFile copies the bytes of src to dst, creating parent directories as
// needed, and carries over the file mode and modification time best-effort.
// An existing dst is overwritten. Returns the number of bytes copied.
func copyFile(src, dst string) (int64, error) {
	if src == dst {
		return 0, fmt.Errorf("source and destination are the same file")
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory for %s: %w", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst) // do not leave a half-written file behind
		return 0, fmt.Errorf("copying to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", dst, err)
	}

	// Metadata is best-effort: a filesystem that rejects chtimes does not
	// fail the copy.
	os.Chtimes(dst, info.ModTime(), info.ModTime())

	return n, nil
}

// FormatSize renders a byte count in human-readable form (B, KB, MB, GB).
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f GB", size)
}
