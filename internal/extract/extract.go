// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract copies the regular files of a source directory into a
// destination directory, with optional basename glob filtering and a choice
// between preserving the source-relative layout or flattening everything
// into the destination root.
//
// Symbolic links are never followed; they are skipped during traversal to
// avoid cycles. When the destination lies inside the source tree it is
// pruned from its own traversal so a run never re-copies its own output.
package extract

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/filedump/pkg/types"
)

// candidate is one file selected for copying, resolved to its final
// destination path.
type candidate struct {
	srcPath  string // absolute source path
	relPath  string // path relative to the source root
	destPath string // absolute destination path
}

// Extract runs one extraction described by req, writing per-file progress
// lines to w. Per-file copy failures are recorded in the result and do not
// abort the run; Extract returns an error alongside a partial result only
// when every attempted copy failed or ctx was canceled between files.
func Extract(ctx context.Context, req types.ExtractionRequest, w io.Writer) (*types.ExtractionResult, error) {
	source, dest, err := resolvePaths(req)
	if err != nil {
		return nil, err
	}

	if req.Filter != "" {
		// Check the pattern once so a syntax error aborts before any
		// filesystem mutation.
		if _, err := filepath.Match(strings.ToLower(req.Filter), "x"); err != nil {
			return nil, fmt.Errorf("filter pattern %q: %v: %w", req.Filter, err, types.ErrValidation)
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating destination %s: %w", dest, err)
	}

	result := &types.ExtractionResult{}

	files, err := collectFiles(source, dest, req.Filter, result)
	if err != nil {
		return nil, err
	}

	plan := placeFiles(files, source, dest, req.Flatten, result)

	for _, c := range plan {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		n, err := copyFile(c.srcPath, c.destPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", c.srcPath, err)
			result.Failures = append(result.Failures, types.FileFailure{
				Path:   c.srcPath,
				Reason: err.Error(),
			})
			continue
		}

		result.Copied++
		result.TotalBytes += n
		fmt.Fprintf(w, "copied  %s (%s)\n", c.relPath, FormatSize(n))
	}

	if result.Copied == 0 && len(result.Failures) > 0 {
		return result, &types.PartialCopyError{Failures: result.Failures}
	}

	return result, nil
}

// resolvePaths validates the source directory and returns source and
// destination as cleaned absolute paths.
func resolvePaths(req types.ExtractionRequest) (source, dest string, err error) {
	info, err := os.Stat(req.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("source directory %s: %w", req.Source, types.ErrNotFound)
		}
		return "", "", fmt.Errorf("stat source %s: %w", req.Source, err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("source %s is not a directory: %w", req.Source, types.ErrNotFound)
	}

	source, err = filepath.Abs(req.Source)
	if err != nil {
		return "", "", fmt.Errorf("resolving source %s: %w", req.Source, err)
	}

	destination := req.Destination
	if destination == "" {
		destination = "."
	}
	dest, err = filepath.Abs(destination)
	if err != nil {
		return "", "", fmt.Errorf("resolving destination %s: %w", destination, err)
	}

	return source, dest, nil
}

// collectFiles walks source and returns the regular files that pass the
// filter, as paths relative to source in lexical walk order. The destination
// subtree is pruned when it is nested inside source, filtered-out files are
// counted in result, and unreadable entries are recorded as failures without
// stopping the walk.
func collectFiles(source, dest, filter string, result *types.ExtractionResult) ([]string, error) {
	var files []string

	err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable directory does not block extraction of the
			// rest of the tree; record it and keep walking.
			result.Failures = append(result.Failures, types.FileFailure{
				Path:   path,
				Reason: err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == dest && path != source {
				return filepath.SkipDir
			}
			return nil
		}

		// Skips symlinks, devices, sockets, and anything else irregular.
		if !d.Type().IsRegular() {
			return nil
		}

		if filter != "" && !matchFilter(filter, d.Name()) {
			result.Filtered++
			return nil
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source %s: %w", source, err)
	}

	return files, nil
}

// matchFilter reports whether name matches the glob pattern, ignoring case.
// Pattern syntax errors were rejected up front, so Match cannot fail here.
func matchFilter(pattern, name string) bool {
	ok, _ := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
	return ok
}

// placeFiles computes the destination path for every collected file. With
// flatten disabled each file keeps its source-relative path; with flatten
// enabled all files land in the destination root and basename clashes are
// renamed with a counter suffix, each rename recorded in result. The walk
// order is lexical, so the same tree always yields the same names.
func placeFiles(files []string, source, dest string, flatten bool, result *types.ExtractionResult) []candidate {
	plan := make([]candidate, 0, len(files))

	if !flatten {
		for _, rel := range files {
			plan = append(plan, candidate{
				srcPath:  filepath.Join(source, rel),
				relPath:  rel,
				destPath: filepath.Join(dest, rel),
			})
		}
		return plan
	}

	taken := make(map[string]bool, len(files))
	for _, rel := range files {
		base := filepath.Base(rel)
		name := base
		if taken[name] {
			name = nextFreeName(base, taken)
			result.Collisions = append(result.Collisions, types.Collision{
				Source:   filepath.Join(source, rel),
				Original: base,
				Renamed:  name,
			})
		}
		taken[name] = true
		plan = append(plan, candidate{
			srcPath:  filepath.Join(source, rel),
			relPath:  name,
			destPath: filepath.Join(dest, name),
		})
	}
	return plan
}

// nextFreeName appends _N to the stem of base, with N counting up from 1,
// until the name is not yet taken in this run.
func nextFreeName(base string, taken map[string]bool) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !taken[name] {
			return name
		}
	}
}
