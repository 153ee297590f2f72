package patch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitByHunk(t *testing.T) {
	result := SplitByHunk(multiFilePatch)

	assert.False(t, result.Degraded)
	assert.NoError(t, result.Cause)
	require.Len(t, result.Fragments, 3)
	assert.Equal(t, "---\n+++\n@@ -1,3 +1,3 @@\n function one() {\n-  return 1;\n+  return 10;\n }", result.Fragments[0])
	assert.Equal(t, "---\n+++\n@@ -10,3 +10,4 @@\n function three() {\n   return 3;\n+  // done\n }", result.Fragments[1])
	assert.Equal(t, "---\n+++\n@@ -1,2 +1,2 @@\n-line_one\n+line_uno\n line_two", result.Fragments[2])
}

func TestSplitByHunk_SingleFileGitDiff(t *testing.T) {
	patch := "diff --git a/sample.py b/sample.py\nindex 111..222 100644\n--- a/sample.py\n+++ b/sample.py\n@@ -1,2 +1,2 @@\n-line_one\n-line_two\n+line_one\n+line_three\n"

	result := SplitByHunk(patch)
	assert.Equal(t, []string{"---\n+++\n@@ -1,2 +1,2 @@\n-line_one\n-line_two\n+line_one\n+line_three"}, result.Fragments)
}

func TestSplitByHunk_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		noHunks bool
	}{
		{"plain text", "this is not a diff", true},
		{"empty input", "", true},
		{"malformed hunk header", "diff --git a/x.ts b/x.ts\n--- a/x.ts\n+++ b/x.ts\n@@ -1,3 +a,b @@\n+added\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitByHunk(tt.input)
			assert.True(t, result.Degraded)
			assert.Equal(t, []string{tt.input}, result.Fragments)
			require.Error(t, result.Cause)
			assert.Equal(t, tt.noHunks, errors.Is(result.Cause, ErrNoHunks))
		})
	}
}

const symbolPatch = `diff --git a/src/a.ts b/src/a.ts
--- a/src/a.ts
+++ b/src/a.ts
@@ -1,3 +1,3 @@
 function one() {
-  return 1;
+  return 10;
 }
@@ -5,2 +5,3 @@
 function two() {
+  // first
   const x = 1;
@@ -7,2 +8,3 @@
   return x + 1;
+  // second
 }
@@ -10,3 +11,0 @@
-function gone() {
-  return 0;
-}
diff --git a/src/b.ts b/src/b.ts
--- a/src/b.ts
+++ b/src/b.ts
@@ -1,2 +1,2 @@
-line_one
+line_uno
 line_two
`

var (
	beforeSpans = []Span{
		{Key: "FunctionDeclaration:one", Start: 1, End: 3},
		{Key: "FunctionDeclaration:two", Start: 5, End: 8},
		{Key: "FunctionDeclaration:gone", Start: 10, End: 12},
	}
	afterSpans = []Span{
		{Key: "FunctionDeclaration:one", Start: 1, End: 3},
		{Key: "FunctionDeclaration:two", Start: 5, End: 10},
	}
)

func TestSplitBySymbol_MergesHunksWithinOneSymbol(t *testing.T) {
	result := SplitBySymbol(symbolPatch, "src/a.ts", beforeSpans, afterSpans)

	assert.False(t, result.Degraded)
	require.Len(t, result.Fragments, 4)
	assert.Equal(t, "---\n+++\n@@ -1,3 +1,3 @@\n function one() {\n-  return 1;\n+  return 10;\n }", result.Fragments[0])
	assert.Equal(t, "---\n+++\n@@ -5,2 +5,3 @@\n function two() {\n+  // first\n   const x = 1;\n@@ -7,2 +8,3 @@\n   return x + 1;\n+  // second\n }", result.Fragments[1])
	assert.Equal(t, "---\n+++\n@@ -10,3 +11,0 @@\n-function gone() {\n-  return 0;\n-}", result.Fragments[2])
	assert.Equal(t, "---\n+++\n@@ -1,2 +1,2 @@\n-line_one\n+line_uno\n line_two", result.Fragments[3])
}

func TestSplitBySymbol_FallsBackToHunks(t *testing.T) {
	t.Run("no enclosing symbol", func(t *testing.T) {
		result := SplitBySymbol(symbolPatch, "src/a.ts", nil, nil)
		assert.Equal(t, SplitByHunk(symbolPatch).Fragments, result.Fragments)
	})

	t.Run("file not in patch", func(t *testing.T) {
		result := SplitBySymbol(symbolPatch, "src/other.ts", beforeSpans, afterSpans)
		assert.Len(t, result.Fragments, 5)
	})

	t.Run("ambiguous file", func(t *testing.T) {
		result := SplitBySymbol(symbolPatch, "", beforeSpans, afterSpans)
		assert.Len(t, result.Fragments, 5)
	})

	t.Run("not a diff", func(t *testing.T) {
		result := SplitBySymbol("nothing here", "src/a.ts", beforeSpans, afterSpans)
		assert.True(t, result.Degraded)
		assert.Equal(t, []string{"nothing here"}, result.Fragments)
	})
}

func TestSplitBySymbol_SharedSpanPicksFirstKey(t *testing.T) {
	patch := "@@ -1,1 +1,1 @@\n-const a = 1, b = 2;\n+const a = 1, b = 3;\n"
	spans := []Span{
		{Key: "const:a", Start: 1, End: 1},
		{Key: "const:b", Start: 1, End: 1},
	}

	result := SplitBySymbol(patch, "", spans, spans)
	assert.Equal(t, []string{"---\n+++\n@@ -1,1 +1,1 @@\n-const a = 1, b = 2;\n+const a = 1, b = 3;"}, result.Fragments)
}
