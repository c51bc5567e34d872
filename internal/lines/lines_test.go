package lines

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeepsTerminators(t *testing.T) {
	seq := Split("a\nb\r\nc")
	assert.Equal(t, []string{"a\n", "b\r\n", "c"}, seq)
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split(""))
}

func TestReadMissingFile(t *testing.T) {
	seq, err := Read(filepath.Join(t.TempDir(), "nope.go"))
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestReadDirectory(t *testing.T) {
	seq, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	content := "one\ntwo\r\nthree"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	seq, err := Read(path)
	require.NoError(t, err)

	require.NoError(t, Write(path, seq))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestWriteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "f.txt")
	require.NoError(t, Write(path, []string{"x\n"}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(got))
}

func TestClampRange(t *testing.T) {
	cases := []struct {
		n, start, end      int
		wantStart, wantEnd int
	}{
		{5, 0, 1000, 1, 5},
		{5, 2, 0, 2, 2},
		{5, 3, 2, 3, 3},
		{5, 10, 12, 5, 5},
		{5, 2, 4, 2, 4},
	}
	for _, c := range cases {
		s, e := ClampRange(c.n, c.start, c.end)
		assert.Equal(t, c.wantStart, s, "start for %+v", c)
		assert.Equal(t, c.wantEnd, e, "end for %+v", c)
	}
}

func TestExtractClampsOutOfRange(t *testing.T) {
	seq := []string{"1\n", "2\n", "3\n", "4\n", "5\n"}
	assert.Equal(t, "1\n2\n3\n4\n5\n", Extract(seq, 0, 1000))
}

func TestExtractEmptySequence(t *testing.T) {
	assert.Equal(t, "", Extract(nil, 1, 3))
}

func TestExtractIdempotentViewNotMutation(t *testing.T) {
	seq := []string{"a\n", "b\n", "c\n"}
	first := Extract(seq, 1, 2)
	second := Extract(seq, 1, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a\n", "b\n", "c\n"}, seq)
}

func TestSpliceConcreteScenario(t *testing.T) {
	seq := []string{"a\n", "b\n", "c\n", "d\n"}
	out, changed := Splice(seq, 2, 3, "X\n")
	assert.True(t, changed)
	assert.Equal(t, []string{"a\n", "X\n", "d\n"}, out)
}

func TestSpliceEmptySequenceNoOp(t *testing.T) {
	out, changed := Splice(nil, 1, 2, "x\n")
	assert.False(t, changed)
	assert.Empty(t, out)
}

func TestSpliceAppendsMissingTerminator(t *testing.T) {
	seq := []string{"a\n", "b\n"}
	out, changed := Splice(seq, 1, 1, "fixed")
	assert.True(t, changed)
	assert.Equal(t, []string{"fixed\n", "b\n"}, out)
}

func TestSpliceEmptyReplacementBecomesBlankLine(t *testing.T) {
	seq := []string{"a\n", "b\n"}
	out, changed := Splice(seq, 1, 1, "")
	assert.True(t, changed)
	assert.Equal(t, []string{"\n", "b\n"}, out)
}

func TestSpliceRoundTripOwnExtract(t *testing.T) {
	seq := []string{"a\n", "b\n", "c\n", "d\n"}
	snippet := Extract(seq, 2, 3)
	out, changed := Splice(seq, 2, 3, snippet)
	assert.True(t, changed)
	assert.Equal(t, seq, out)
}

func TestSpliceMultiLineReplacement(t *testing.T) {
	seq := []string{"a\n", "b\n", "c\n"}
	out, changed := Splice(seq, 2, 2, "x\ny\nz\n")
	assert.True(t, changed)
	assert.Equal(t, []string{"a\n", "x\n", "y\n", "z\n", "c\n"}, out)
}
