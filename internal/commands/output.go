package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	apperrors "github.com/diogo/chatsearch/internal/errors"
	"github.com/diogo/chatsearch/internal/history"
	"github.com/diogo/chatsearch/internal/logging"
)

var (
	colorTextDim = lipgloss.Color("#565f89")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorError   = lipgloss.Color("#f7768e")
	colorPrimary = lipgloss.Color("#7aa2f7")
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	dimStyle     = lipgloss.NewStyle().Foreground(colorTextDim)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorPrimary)
)

// formatErrorMessage formats an error with a hint for known error types
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	if context != "" {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))
	} else {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))
	}

	if hint := apperrors.Hint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}

	return sb.String()
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isTTY reports whether w is a terminal
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// truncate shortens s to n runes, adding an ellipsis when cut
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// newLogger creates the stderr logger used by non-interactive commands
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	logger, err := logging.New(logging.Options{Verbose: verbose, Output: w})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	char := spinnerStyle.Render(chars[s.frame%len(chars)])
	fmt.Fprintf(s.out, "\r\033[K%s %s", char, dimStyle.Render(s.message))
}

// halt stops the animation and waits for the line to be cleared
func (s *spinner) halt() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done
}

// loadExport loads path into a new session, animating a spinner on
// terminals while the file is parsed
func loadExport(path string, stderr io.Writer, logger *zap.Logger) (*history.Session, error) {
	session := history.NewSession(logger)

	if isTTY(stderr) {
		s := newSpinner(stderr, fmt.Sprintf("Loading %s", path))
		s.start()
		defer s.halt()
	}

	if err := session.Load(path); err != nil {
		return nil, err
	}
	return session, nil
}

// printSuccess writes a green check line
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}
