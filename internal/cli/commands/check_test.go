package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

func TestCheckCommand_MixedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := `# saved searches
game:valorant epic

gme:valorant
votes:>100
duration:60..10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, errOut, err := execCommand(t, NewCheckCommand(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errCheckFailed)

	assert.Contains(t, out, path+":4:1: QE001")
	assert.Contains(t, out, path+":6:")
	assert.Contains(t, out, "QE004")
	assert.Contains(t, errOut, "2 of 4 queries invalid")
}

func TestCheckCommand_AllValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.txt")
	require.NoError(t, os.WriteFile(path, []byte("epic\ngame:valorant\n# comment\n"), 0o644))

	out, _, err := execCommand(t, NewCheckCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 queries valid")
}

func TestCheckCommand_Stdin(t *testing.T) {
	cmd := NewCheckCommand()
	cmd.SetIn(strings.NewReader("game:valorant\ngme:x\n"))

	out, _, err := execCommand(t, cmd)
	require.Error(t, err)
	assert.Contains(t, out, "<stdin>:2:1: QE001")
}

func TestCheckCommand_JSONReport(t *testing.T) {
	withFormat(t, "json")

	path := filepath.Join(t.TempDir(), "queries.txt")
	require.NoError(t, os.WriteFile(path, []byte("game:valorant\ngme:x\n"), 0o644))

	out, _, err := execCommand(t, NewCheckCommand(), path)
	require.Error(t, err)

	var report struct {
		File        string `json:"file"`
		Checked     int    `json:"checked"`
		Invalid     int    `json:"invalid"`
		Diagnostics []struct {
			Line  int    `json:"line"`
			Query string `json:"query"`
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, path, report.File)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Invalid)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, 2, report.Diagnostics[0].Line)
	assert.Equal(t, "QE001", report.Diagnostics[0].Error.Code)
}

func TestCheckCommand_MissingFile(t *testing.T) {
	_, _, err := execCommand(t, NewCheckCommand(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestCheckCommand_WatchNeedsFile(t *testing.T) {
	cmd := NewCheckCommand()
	cmd.SetIn(strings.NewReader("epic\n"))

	_, _, err := execCommand(t, cmd, "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a file")
}

func TestCheckQueries_SkipsCommentsAndBlanks(t *testing.T) {
	report := checkQueries("x", "# c\n\n  \nepic\n", parser.DefaultConfig())

	assert.Equal(t, 1, report.Checked)
	assert.Zero(t, report.Invalid)
	assert.Empty(t, report.Diagnostics)
}

func TestCheckQueries_LineNumbersSurviveSkips(t *testing.T) {
	report := checkQueries("x", "# header\n\ngme:a\n", parser.DefaultConfig())

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, 3, report.Diagnostics[0].Line)
	assert.Equal(t, "gme:a", report.Diagnostics[0].Query)
}
