package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummarizeCommand(t *testing.T) {
	path := writeCSV(t, "id,score\n1,10\n2,20\n3,30\n")

	out, err := run(t, "summarize", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# CSV Data Analysis Summary\n"))
	assert.Contains(t, out, "- id and score: positive correlation (1.00)")
	assert.NotContains(t, out, "Authentication")
}

func TestSummarizeCommandWithToken(t *testing.T) {
	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer github.Close()

	path := writeCSV(t, "a\n1\n")
	t.Setenv("CSVSUMMARIZE_TOKEN", "tok")

	out, err := run(t, "summarize", "--github-url", github.URL, path)
	require.NoError(t, err)
	assert.Contains(t, out, "- Analysis requested by GitHub user: octocat")
}

func TestSummarizeCommandSeedIsStable(t *testing.T) {
	var b strings.Builder
	b.WriteString("code\n")
	for i := 0; i < 30; i++ {
		b.WriteString("item-" + strings.Repeat("x", i) + "\n")
	}
	path := writeCSV(t, b.String())

	first, err := run(t, "summarize", "--seed", "9", path)
	require.NoError(t, err)
	second, err := run(t, "summarize", "--seed", "9", path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "- Sample values:")
}

func TestSummarizeCommandMissingFile(t *testing.T) {
	_, err := run(t, "summarize", filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read ")
}

func TestPreviewCommand(t *testing.T) {
	path := writeCSV(t, "name,score\nann,1.5\nbob,NA\ncat,3\n")

	out, err := run(t, "preview", "--rows", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "ann")
	assert.Contains(t, out, "1.5")
	assert.NotContains(t, out, "cat")
	assert.Contains(t, out, "3 rows x 2 columns (utf-8)")
}

func TestPreviewCommandRejectsNegativeRows(t *testing.T) {
	path := writeCSV(t, "a\n1\n")

	_, err := run(t, "preview", "--rows", "-1", path)
	assert.Error(t, err)
}
