package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"

	apperrors "tabload/pkg/errors"
)

var (
	// Check if output supports colors
	supportsColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// Color functions
	ColorSuccess  = colorFunc(ansi.Green)
	ColorError    = colorFunc(ansi.Red)
	ColorWarning  = colorFunc(ansi.Yellow)
	ColorInfo     = colorFunc(ansi.Cyan)
	ColorProgress = colorFunc(ansi.Blue)
	ColorBold     = colorFunc("default+b")
	ColorDim      = colorFunc("default+h")
)

// colorFunc returns a function that colors text if supported
func colorFunc(color string) func(string) string {
	return func(text string) string {
		if supportsColor {
			return ansi.Color(text, color)
		}
		return text
	}
}

// ShowError displays a formatted error message, surfacing the error code
// and originating component for structured errors
func ShowError(err error) {
	code := apperrors.GetErrorCode(err)
	component := apperrors.GetComponent(err)

	header := string(code)
	if component != "" {
		header = fmt.Sprintf("%s in %s", code, component)
	}
	fmt.Fprintf(os.Stderr, "\n%s %s\n", ColorError("ERROR:"), ColorDim(header))

	for i, line := range strings.Split(err.Error(), "\n") {
		if i == 0 {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", ColorDim(line))
		}
	}
}

// ShowWarning displays a warning message
func ShowWarning(message string) {
	fmt.Printf("%s %s\n", ColorWarning("WARN:"), message)
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	fmt.Printf("%s %s\n", ColorSuccess("OK:"), message)
}

func formatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 1:
		return fmt.Sprintf("%.0fms", seconds*1000)
	case seconds < 60:
		return fmt.Sprintf("%.1fs", seconds)
	default:
		minutes := int(seconds) / 60
		return fmt.Sprintf("%dm%ds", minutes, int(seconds)%60)
	}
}
