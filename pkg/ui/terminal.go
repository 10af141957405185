package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ASCII logo for the application
const ASCIILogo = `
  ┌─────────────────────────────────────────┐
  │  emojigrab · custom emoji downloader     │
  └─────────────────────────────────────────┘
`

var (
	mu           sync.RWMutex
	colorEnabled = true
	quiet        bool
	stdout       io.Writer = os.Stdout
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
// while colors are enabled
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !ColorEnabled() {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Setup configures color and quiet mode for the package level printers.
// Colors stay off when stdout is not a terminal, NO_COLOR is set or
// noColor is true.
func Setup(noColor, quietMode bool) {
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	SetColorEnabled(!noColor && !noColorEnv && IsTerminal(os.Stdout))
	SetQuiet(quietMode)
}

// SetColorEnabled turns ANSI colors on or off
func SetColorEnabled(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	colorEnabled = enabled
}

// ColorEnabled reports whether ANSI colors are in use
func ColorEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return colorEnabled
}

// SetQuiet suppresses informational output. Errors and warnings still print.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuiet reports whether informational output is suppressed
func IsQuiet() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// SetOutput redirects the package level printers
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	stdout = w
}

// Output returns the writer used by the package level printers
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return stdout
}

func emit(always bool, text string) {
	if !always && IsQuiet() {
		return
	}
	fmt.Fprintln(Output(), text)
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if IsQuiet() {
		return
	}
	fmt.Fprint(Output(), Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		emit(true, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		emit(true, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	emit(false, Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	emit(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		emit(true, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		emit(true, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	emit(false, Magenta(msg))
}
