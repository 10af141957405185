package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPlainOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevColor, prevQuiet, prevOut := ColorEnabled(), IsQuiet(), Output()
	SetColorEnabled(false)
	SetQuiet(false)
	SetOutput(&buf)
	t.Cleanup(func() {
		SetColorEnabled(prevColor)
		SetQuiet(prevQuiet)
		SetOutput(prevOut)
	})
	return &buf
}

func TestColorToggle(t *testing.T) {
	withPlainOutput(t)

	assert.Equal(t, "plain", Red("plain"))

	SetColorEnabled(true)
	assert.Equal(t, "\033[31mplain\033[0m", Red("plain"))
}

func TestPrinters(t *testing.T) {
	buf := withPlainOutput(t)

	PrintInfo("Instance", "misskey.io")
	PrintSuccess("done")
	PrintError("fetch failed", errors.New("timeout"))
	PrintWarning("careful")

	assert.Equal(t, "Instance: misskey.io\ndone\nfetch failed: timeout\ncareful\n", buf.String())
}

func TestQuietSuppressesInfo(t *testing.T) {
	buf := withPlainOutput(t)
	SetQuiet(true)

	PrintLogo()
	PrintInfo("Instance", "misskey.io")
	PrintSuccess("done")
	PrintHighlight("note")
	PrintError("broken")
	PrintWarning("careful")

	assert.Equal(t, "broken\ncareful\n", buf.String())
}

func TestPrompterAsk(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n  misskey.io  \n"), &out)

	answer, err := p.Ask("Instance: ", true)
	require.NoError(t, err)
	assert.Equal(t, "misskey.io", answer)
	assert.Equal(t, 2, strings.Count(out.String(), "Instance: "))
	assert.Contains(t, out.String(), "A value is required.")
}

func TestPrompterOptionalAndEOF(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\nlast-line-without-newline"), &out)

	answer, err := p.AskProxy()
	require.NoError(t, err)
	assert.Empty(t, answer)

	answer, err = p.Ask("Next: ", false)
	require.NoError(t, err)
	assert.Equal(t, "last-line-without-newline", answer)

	_, err = p.Ask("Again: ", true)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestPrompterDirectory(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n/tmp/emojis\n"), &out)

	dir, err := p.AskDirectory("./myEmojis")
	require.NoError(t, err)
	assert.Equal(t, "./myEmojis", dir)
	assert.Contains(t, out.String(), "[./myEmojis]")

	dir, err = p.AskDirectory("./myEmojis")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/emojis", dir)
}

func TestPrompterConfirm(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("maybe\nYES\n\n"), &out)

	ok, err := p.Confirm("Continue?", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Please answer y or n.")

	ok, err = p.Confirm("Continue?", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectCategoriesReprompts(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("9\nfoo\n2, 1\n"), &out)

	selected, err := p.SelectCategories(
		[]string{"Blobs", "Foxes", "Uncategorized"},
		map[string]int{"Blobs": 3, "Foxes": 1},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foxes", "Blobs"}, selected)

	text := out.String()
	assert.Contains(t, text, "  1. Blobs (3)")
	assert.Contains(t, text, "  3. Uncategorized\n")
	assert.Equal(t, 2, strings.Count(text, "Invalid selection"))
}

func TestSelectCategoriesAll(t *testing.T) {
	withPlainOutput(t)
	p := NewPrompter(strings.NewReader("\n"), &bytes.Buffer{})

	selected, err := p.SelectCategories([]string{"Blobs", "Foxes"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blobs", "Foxes"}, selected)
}

func TestProgressDisplayVerbose(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	p := NewProgressDisplay(&out, "misskey.io", 3, true)

	p.Record("Blobs", "blobcat", "downloaded", 2048, nil)
	p.Record("Blobs", "blobfox", "skipped", 0, nil)
	p.Record("Foxes", "neofox", "failed", 0, errors.New("404"))
	p.Complete()

	text := out.String()
	assert.Contains(t, text, "[1/3] ✓ Blobs/blobcat • 2.0 KB")
	assert.Contains(t, text, "[2/3] - Blobs/blobfox")
	assert.Contains(t, text, "[3/3] ✗ Foxes/neofox • 404")
	assert.Contains(t, text, "Downloaded 1 of 3 emojis from misskey.io")
	assert.Contains(t, text, "1 skipped")
	assert.Contains(t, text, "1 failed")
}

func TestProgressDisplayBar(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	p := NewProgressDisplay(&out, "misskey.io", 2, false)

	p.Record("Blobs", "blobcat", "downloaded", 10, nil)
	assert.Contains(t, out.String(), "1/2 • 10 B")
	assert.Contains(t, out.String(), strings.Repeat("━", 10)+strings.Repeat("─", 10))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "3.0 MB", FormatBytes(3*1024*1024))

	assert.Equal(t, "2.5s", FormatDuration(2500*time.Millisecond))
	assert.Equal(t, "1m30s", FormatDuration(90*time.Second))
	assert.Equal(t, "2h5m", FormatDuration(2*time.Hour+5*time.Minute))
}

type recordingSender struct {
	titles []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	return nil
}

func TestNotifier(t *testing.T) {
	withPlainOutput(t)
	var out bytes.Buffer
	sender := &recordingSender{}

	NewNotifierWithSender(&out, false, sender).SendSuccess("Done", "42 emojis")
	assert.Empty(t, sender.titles)
	assert.Contains(t, out.String(), "Done: 42 emojis")

	n := NewNotifierWithSender(&out, true, sender)
	n.SendSuccess("Done", "42 emojis")
	n.SendError("Failed", "3 emojis")
	assert.Equal(t, []string{"Done", "Failed"}, sender.titles)
}
