package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/config"
)

// execCommand runs a command with captured output and error streams.
func execCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	// A nil arg slice would make Execute fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// withFormat primes the loaded configuration with an output format, the
// way the root command's --format flag would.
func withFormat(t *testing.T, format string) {
	t.Helper()

	t.Chdir(t.TempDir())
	t.Setenv("CLIPQL_FORMAT", format)
	if _, err := config.LoadConfig("", nil); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	t.Cleanup(config.ResetConfig)
}
