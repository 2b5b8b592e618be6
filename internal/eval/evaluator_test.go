package eval

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/fgr/internal/query"
)

func mustParse(t *testing.T, input string) query.Expr {
	t.Helper()

	expr, err := query.Parse(input)
	require.NoError(t, err)
	return expr
}

func fileSnapshot() *Snapshot {
	return &Snapshot{
		Path:  "/home/user/src/main.rs",
		Name:  "main.rs",
		Depth: 2,
		Size:  4096,
		Perm:  0o644,
		UID:   1000,
		GID:   1000,
		ATime: time.Now().Add(-time.Hour),
		MTime: time.Now().Add(-2 * time.Hour),
		Kind:  KindFile,
	}
}

func TestEvaluatePredicates(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		matched bool
	}{
		{name: "name glob match", input: "name=*.rs", matched: true},
		{name: "name glob no match", input: "name=*.go", matched: false},
		{name: "name neq", input: "name!=*.go", matched: true},
		{name: "name literal", input: "name=main.rs", matched: true},
		{name: "name insensitive", input: "name=i'MAIN.RS'", matched: true},
		{name: "name regex", input: `name=r"main\..+"`, matched: true},
		{name: "extension", input: "ext=rs", matched: true},
		{name: "extension neq", input: "ext!=go", matched: true},
		{name: "path glob", input: "path=*src*", matched: true},
		{name: "size equal", input: "size=4096", matched: true},
		{name: "size with unit", input: "size=4Kb", matched: true},
		{name: "size greater", input: "size>1Kb", matched: true},
		{name: "size lesser fails", input: "size<1Kb", matched: false},
		{name: "depth", input: "depth<=2", matched: true},
		{name: "depth fails", input: "depth>2", matched: false},
		{name: "user", input: "user=1000", matched: true},
		{name: "group neq", input: "group!=0", matched: true},
		{name: "perm exact bits", input: "perm=644", matched: true},
		{name: "perm subset", input: "perm=600", matched: true},
		{name: "perm missing bits", input: "perm=755", matched: false},
		{name: "perm ordering", input: "perm>600", matched: true},
		{name: "mtime older than now", input: "mtime<now", matched: true},
		{name: "mtime within window", input: "mtime>now-1d", matched: true},
		{name: "mtime outside window", input: "mtime>now-1h", matched: false},
		{name: "atime within window", input: "atime>now-2h", matched: true},
	}

	evaluator := NewEvaluator(time.Second)
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			matched, err := evaluator.Evaluate(mustParse(t, tc.input), fileSnapshot())
			require.NoError(t, err)
			assert.Equal(t, tc.matched, matched)
		})
	}
}

func TestEvaluateExtensionlessName(t *testing.T) {
	t.Parallel()

	snap := fileSnapshot()
	snap.Name = "Makefile"
	evaluator := NewEvaluator(time.Second)

	matched, err := evaluator.Evaluate(mustParse(t, "ext=rs"), snap)
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = evaluator.Evaluate(mustParse(t, "ext!=rs"), snap)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestEvaluateSetuidPermission(t *testing.T) {
	t.Parallel()

	snap := fileSnapshot()
	snap.Perm = 0o4755
	evaluator := NewEvaluator(time.Second)

	matched, err := evaluator.Evaluate(mustParse(t, "perm=4000"), snap)
	require.NoError(t, err)
	assert.True(t, matched, "containment should match any setuid file")

	matched, err = evaluator.Evaluate(mustParse(t, "perm>=4000"), snap)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestEvaluateSizeOnNonFile(t *testing.T) {
	t.Parallel()

	snap := fileSnapshot()
	snap.Kind = KindSymlink
	evaluator := NewEvaluator(time.Second)

	_, err := evaluator.Evaluate(mustParse(t, "size>0"), snap)
	require.Error(t, err)
	assert.True(t, IsEvalError(err))
	assert.True(t, IsNotFileError(err))
}

func TestEvaluateTypeOnNonFile(t *testing.T) {
	t.Parallel()

	snap := fileSnapshot()
	snap.Kind = KindDir
	evaluator := NewEvaluator(time.Second)

	matched, err := evaluator.Evaluate(mustParse(t, "type=text"), snap)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestEvaluateContainsOnNonFile(t *testing.T) {
	t.Parallel()

	snap := fileSnapshot()
	snap.Kind = KindDir
	evaluator := NewEvaluator(time.Second)

	matched, err := evaluator.Evaluate(mustParse(t, "contains=*x*"), snap)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestEvaluateContains(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("happy birthday to you\n"), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	snap := NewSnapshot(path, 1, info)

	evaluator := NewEvaluator(time.Second)

	matched, err := evaluator.Evaluate(mustParse(t, "contains=*birthday*"), snap)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = evaluator.Evaluate(mustParse(t, "contains=*funeral*"), snap)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestEvaluateShortCircuit(t *testing.T) {
	t.Parallel()

	// A size predicate on a symlink errors, so reaching it proves the
	// short circuit did not fire.
	snap := fileSnapshot()
	snap.Kind = KindSymlink
	evaluator := NewEvaluator(time.Second)

	t.Run("and skips right on false left", func(t *testing.T) {
		t.Parallel()

		matched, err := evaluator.Evaluate(mustParse(t, "name=*.go and size>0"), snap)
		require.NoError(t, err)
		assert.False(t, matched)
	})

	t.Run("or skips right on true left", func(t *testing.T) {
		t.Parallel()

		matched, err := evaluator.Evaluate(mustParse(t, "name=*.rs or size>0"), snap)
		require.NoError(t, err)
		assert.True(t, matched)
	})

	t.Run("and surfaces reached error", func(t *testing.T) {
		t.Parallel()

		_, err := evaluator.Evaluate(mustParse(t, "name=*.rs and size>0"), snap)
		require.Error(t, err)
		assert.True(t, IsNotFileError(err))
	})
}

func TestEvaluateBooleanCombinations(t *testing.T) {
	t.Parallel()

	evaluator := NewEvaluator(time.Second)
	snap := fileSnapshot()

	testCases := []struct {
		input   string
		matched bool
	}{
		{input: "name=*.rs and size>1Kb", matched: true},
		{input: "name=*.go or size>1Kb", matched: true},
		{input: "name=*.go or size<1Kb", matched: false},
		{input: "not name=*.go", matched: true},
		{input: "not (name=*.rs and depth<=2)", matched: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			matched, err := evaluator.Evaluate(mustParse(t, tc.input), snap)
			require.NoError(t, err)
			assert.Equal(t, tc.matched, matched)
		})
	}
}

func TestNormalizationPreservesSemantics(t *testing.T) {
	t.Parallel()

	queries := []string{
		"not (name=*.rs and size>1Kb)",
		"not (depth>5 or perm=777)",
		"size>1Kb and name=*.rs and depth<=2",
		"size>1Mb or name=*.rs or not depth<1",
		"not not (name=*.rs and mtime<now)",
	}

	evaluator := NewEvaluator(time.Second)
	for _, input := range queries {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			expr, err := query.Parse(input)
			require.NoError(t, err)

			snap := fileSnapshot()
			raw, rawErr := evaluator.Evaluate(expr, snap)
			normalized, normErr := evaluator.Evaluate(query.Normalize(expr), fileSnapshot())
			require.Equal(t, rawErr == nil, normErr == nil)
			assert.Equal(t, raw, normalized)
		})
	}
}

func TestSnapshotFromFileInfo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o640))

	info, err := os.Stat(path)
	require.NoError(t, err)
	snap := NewSnapshot(path, 3, info)

	assert.Equal(t, path, snap.Path)
	assert.Equal(t, "sample.txt", snap.Name)
	assert.Equal(t, int64(3), snap.Depth)
	assert.Equal(t, int64(5), snap.Size)
	assert.Equal(t, uint32(0o640), snap.Perm)
	assert.Equal(t, KindFile, snap.Kind)
	assert.WithinDuration(t, time.Now(), snap.MTime, time.Minute)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, KindDir, kindOf(info.Mode()))
}
