package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emojigrab/pkg/grabber"
	"emojigrab/pkg/ui"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"30", 30 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"500ms", 500 * time.Millisecond, false},
		{"0", 0, true},
		{"-5s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := parseTimeout(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(&exitError{code: 2}))
	assert.Equal(t, 1, exitCode(errors.New("unknown flag: --nope")))
}

func TestCompletionMessage(t *testing.T) {
	summary := &grabber.Summary{Total: 5, Downloaded: 3, Skipped: 1, Failed: 1, OutputDir: "out"}
	assert.Equal(t, "3 of 5 emojis saved to out, 1 skipped, 1 failed", completionMessage(summary))

	summary = &grabber.Summary{Total: 2, Downloaded: 2, OutputDir: "out"}
	assert.Equal(t, "2 of 2 emojis saved to out", completionMessage(summary))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

// runCLIWithInput executes the command tree with input as stdin. Flag
// values are reset first since cobra keeps them between executions.
func runCLIWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd.PersistentFlags())
	resetFlags(rootCmd.Flags())
	resetFlags(downloadCmd.Flags())

	var out bytes.Buffer
	ui.SetOutput(&out)
	t.Cleanup(func() { ui.SetOutput(os.Stdout) })

	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emojigrab.yaml")

	out, err := runCLI(t, "config", "init", "--no-color", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")
	assert.FileExists(t, path)

	// a second init refuses to overwrite
	_, err = runCLI(t, "config", "init", "--no-color", "--config", path)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	// point the template at the temp dir so validate can create it
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.Replace(data, []byte(`"./myEmojis"`), []byte(`"`+filepath.Join(dir, "emojis")+`"`), 1)
	data = bytes.Replace(data, []byte(`host: ""`), []byte(`host: "misskey.io"`), 1)
	require.NoError(t, os.WriteFile(path, data, 0644))

	out, err = runCLI(t, "config", "validate", "--no-color", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Instance: misskey.io")
	assert.DirExists(t, filepath.Join(dir, "emojis"))
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  concurrent_downloads: 0\n"), 0644))

	_, err := runCLI(t, "config", "validate", "--no-color", "--config", path)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instance:\n  host: example.social\n"), 0644))

	out, err := runCLI(t, "config", "show", "--no-color", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "host: example.social")
	assert.Contains(t, out, "Configuration file: "+path)
}
