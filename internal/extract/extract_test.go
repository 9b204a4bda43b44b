// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pdiddy/filedump/pkg/types"
)

// --- test helpers ---

// writeTree creates the given files under root, with intermediate
// directories, keyed by slash-separated relative path.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// listTree returns all regular files under root as sorted slash-separated
// relative paths.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(files)
	return files
}

func sampleTree() map[string]string {
	return map[string]string{
		"docs/a.txt": "alpha",
		"docs/b.log": "bravo",
		"img/c.png":  "charlie",
	}
}

func run(t *testing.T, req types.ExtractionRequest) *types.ExtractionResult {
	t.Helper()
	result, err := Extract(context.Background(), req, io.Discard)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return result
}

// --- placement ---

func TestExtractPreservesStructure(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, sampleTree())

	result := run(t, types.ExtractionRequest{Source: src, Destination: dst})

	if result.Copied != 3 {
		t.Fatalf("copied = %d, want 3", result.Copied)
	}
	want := []string{"docs/a.txt", "docs/b.log", "img/c.png"}
	got := listTree(t, dst)
	if len(got) != len(want) {
		t.Fatalf("destination tree = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("destination tree = %v, want %v", got, want)
		}
	}
	if content := readFile(t, filepath.Join(dst, "docs", "a.txt")); content != "alpha" {
		t.Errorf("a.txt content = %q, want %q", content, "alpha")
	}
}

func TestExtractFilterRestrictsToMatches(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, sampleTree())

	result := run(t, types.ExtractionRequest{Source: src, Destination: dst, Filter: "*.txt"})

	if result.Copied != 1 {
		t.Fatalf("copied = %d, want 1", result.Copied)
	}
	if result.Filtered != 2 {
		t.Errorf("filtered = %d, want 2", result.Filtered)
	}
	got := listTree(t, dst)
	if len(got) != 1 || got[0] != "docs/a.txt" {
		t.Fatalf("destination tree = %v, want [docs/a.txt]", got)
	}
}

func TestExtractFilterIgnoresCase(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"README.TXT": "upper"})

	result := run(t, types.ExtractionRequest{Source: src, Destination: dst, Filter: "*.txt"})

	if result.Copied != 1 {
		t.Fatalf("copied = %d, want 1", result.Copied)
	}
}

func TestExtractFlattenResolvesCollisions(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	tree := sampleTree()
	tree["img/a.txt"] = "second alpha"
	writeTree(t, src, tree)

	result := run(t, types.ExtractionRequest{Source: src, Destination: dst, Flatten: true})

	if result.Copied != 4 {
		t.Fatalf("copied = %d, want 4", result.Copied)
	}
	if len(result.Collisions) != 1 {
		t.Fatalf("collisions = %d, want 1", len(result.Collisions))
	}
	c := result.Collisions[0]
	if c.Original != "a.txt" || c.Renamed != "a_1.txt" {
		t.Fatalf("collision = %+v, want a.txt renamed to a_1.txt", c)
	}

	// Lexical walk order: docs/a.txt keeps the name, img/a.txt is renamed.
	if content := readFile(t, filepath.Join(dst, "a.txt")); content != "alpha" {
		t.Errorf("a.txt content = %q, want %q", content, "alpha")
	}
	if content := readFile(t, filepath.Join(dst, "a_1.txt")); content != "second alpha" {
		t.Errorf("a_1.txt content = %q, want %q", content, "second alpha")
	}
}

func TestExtractFlattenNamesAreDeterministic(t *testing.T) {
	src := t.TempDir()
	tree := sampleTree()
	tree["img/a.txt"] = "second alpha"
	writeTree(t, src, tree)

	first := run(t, types.ExtractionRequest{Source: src, Destination: t.TempDir(), Flatten: true})
	second := run(t, types.ExtractionRequest{Source: src, Destination: t.TempDir(), Flatten: true})

	if len(first.Collisions) != 1 || len(second.Collisions) != 1 {
		t.Fatalf("collisions = %d/%d, want 1/1", len(first.Collisions), len(second.Collisions))
	}
	if first.Collisions[0].Renamed != second.Collisions[0].Renamed {
		t.Errorf("renamed = %q then %q, want identical runs",
			first.Collisions[0].Renamed, second.Collisions[0].Renamed)
	}
}

func TestExtractFlattenSuffixSkipsTakenNames(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		"a.txt":        "one",
		"sub/a.txt":    "two",
		"sub2/a_1.txt": "three",
	})

	result := run(t, types.ExtractionRequest{Source: src, Destination: dst, Flatten: true})

	if result.Copied != 3 {
		t.Fatalf("copied = %d, want 3", result.Copied)
	}
	got := listTree(t, dst)
	want := []string{"a.txt", "a_1.txt", "a_1_1.txt"}
	if len(got) != len(want) {
		t.Fatalf("destination tree = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("destination tree = %v, want %v", got, want)
		}
	}
}

// --- edge cases ---

func TestExtractEmptySource(t *testing.T) {
	result := run(t, types.ExtractionRequest{Source: t.TempDir(), Destination: t.TempDir()})
	if result.Copied != 0 {
		t.Fatalf("copied = %d, want 0", result.Copied)
	}
}

func TestExtractFilterMatchingNothing(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, sampleTree())

	result := run(t, types.ExtractionRequest{Source: src, Destination: t.TempDir(), Filter: "*.exe"})

	if result.Copied != 0 {
		t.Fatalf("copied = %d, want 0", result.Copied)
	}
	if result.Filtered != 3 {
		t.Errorf("filtered = %d, want 3", result.Filtered)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, sampleTree())
	req := types.ExtractionRequest{Source: src, Destination: dst}

	run(t, req)
	result := run(t, req)

	if result.Copied != 3 {
		t.Fatalf("second run copied = %d, want 3", result.Copied)
	}
	if got := listTree(t, dst); len(got) != 3 {
		t.Fatalf("destination tree = %v, want 3 files", got)
	}
	if content := readFile(t, filepath.Join(dst, "docs", "a.txt")); content != "alpha" {
		t.Errorf("a.txt content = %q after rerun, want %q", content, "alpha")
	}
}

func TestExtractDestinationInsideSource(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, sampleTree())
	dst := filepath.Join(src, "backup")

	first := run(t, types.ExtractionRequest{Source: src, Destination: dst})
	second := run(t, types.ExtractionRequest{Source: src, Destination: dst})

	if first.Copied != 3 || second.Copied != 3 {
		t.Fatalf("copied = %d then %d, want 3 and 3 (backup excluded from traversal)",
			first.Copied, second.Copied)
	}
	if _, err := os.Stat(filepath.Join(dst, "backup")); !os.IsNotExist(err) {
		t.Error("destination was copied into itself")
	}
}

func TestExtractSkipsSymlinks(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"real.txt": "real"})
	if err := os.Symlink(filepath.Join(src, "real.txt"), filepath.Join(src, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	result := run(t, types.ExtractionRequest{Source: src, Destination: dst})

	if result.Copied != 1 {
		t.Fatalf("copied = %d, want 1 (symlink skipped)", result.Copied)
	}
	if _, err := os.Lstat(filepath.Join(dst, "link.txt")); !os.IsNotExist(err) {
		t.Error("symlink was copied")
	}
}

// --- failures ---

func TestExtractMissingSource(t *testing.T) {
	_, err := Extract(context.Background(), types.ExtractionRequest{
		Source:      filepath.Join(t.TempDir(), "absent"),
		Destination: t.TempDir(),
	}, io.Discard)
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExtractSourceIsAFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Extract(context.Background(), types.ExtractionRequest{
		Source:      src,
		Destination: t.TempDir(),
	}, io.Discard)
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExtractBadFilterPattern(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, sampleTree())

	_, err := Extract(context.Background(), types.ExtractionRequest{
		Source:      src,
		Destination: t.TempDir(),
		Filter:      "[",
	}, io.Discard)
	if !errors.Is(err, types.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestExtractContinuesAfterFileFailure(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, sampleTree())
	// A directory squatting on a destination file path makes that one copy
	// fail while the rest of the run proceeds.
	if err := os.MkdirAll(filepath.Join(dst, "docs", "a.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Extract(context.Background(), types.ExtractionRequest{
		Source:      src,
		Destination: dst,
	}, io.Discard)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if result.Copied != 2 {
		t.Fatalf("copied = %d, want 2", result.Copied)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %v, want exactly one", result.Failures)
	}
	if got := result.Failures[0].Path; got != filepath.Join(src, "docs", "a.txt") {
		t.Errorf("failure path = %q, want docs/a.txt under source", got)
	}
	if result.Attempted() != 3 {
		t.Errorf("attempted = %d, want 3", result.Attempted())
	}
}

func TestExtractAllCopiesFailing(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"only.txt": "x"})
	if err := os.MkdirAll(filepath.Join(dst, "only.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Extract(context.Background(), types.ExtractionRequest{
		Source:      src,
		Destination: dst,
	}, io.Discard)

	var partial *types.PartialCopyError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want *types.PartialCopyError", err)
	}
	if len(partial.Failures) != 1 {
		t.Fatalf("error failures = %v, want exactly one", partial.Failures)
	}
	if result == nil || result.Copied != 0 {
		t.Fatalf("result = %+v, want 0 copies", result)
	}
}

func TestExtractUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		"open/a.txt":   "alpha",
		"locked/b.txt": "bravo",
	})
	locked := filepath.Join(src, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	result, err := Extract(context.Background(), types.ExtractionRequest{
		Source:      src,
		Destination: dst,
	}, io.Discard)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if result.Copied != 1 {
		t.Fatalf("copied = %d, want 1 (readable sibling)", result.Copied)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %v, want the unreadable directory recorded", result.Failures)
	}
	if content := readFile(t, filepath.Join(dst, "open", "a.txt")); content != "alpha" {
		t.Errorf("a.txt content = %q, want %q", content, "alpha")
	}
}

func TestExtractCanceledContext(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, sampleTree())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Extract(ctx, types.ExtractionRequest{
		Source:      src,
		Destination: t.TempDir(),
	}, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result == nil || result.Copied != 0 {
		t.Fatalf("result = %+v, want partial result with 0 copies", result)
	}
}

// --- helpers ---

func TestFormatSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{512, "512.00 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
	}
	for _, c := range cases {
		if got := FormatSize(c.n); got != c.want {
			t.Errorf("FormatSize(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
