// Package output renders command results for terminals, pipes, and
// machine consumers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Mode selects how command output is rendered.
type Mode string

const (
	// ModeAuto picks text on a terminal and markdown when piped.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// ValidModes lists the accepted --format values.
func ValidModes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}
}

// Styles groups the lipgloss styles commands render with.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Code    lipgloss.Style
}

func coloredStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Code:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

func plainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Title: s, Header: s, Success: s, Warning: s,
		Error: s, Muted: s, Bold: s, Code: s,
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles Styles
}

// NewRenderer builds a renderer for the given writers. Color is enabled
// only when out is a terminal and the environment does not opt out.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTerminal(out),
		styles: plainStyles(),
	}
	if r.isTTY && !termenv.EnvNoColor() {
		r.styles = coloredStyles()
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColorEnabled forces color on or off, overriding the TTY detection.
func (r *Renderer) SetColorEnabled(enabled bool) {
	if enabled {
		r.styles = coloredStyles()
		return
	}
	r.styles = plainStyles()
}

// EffectiveMode resolves ModeAuto against the output destination.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the output writer is a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Writer returns the destination for primary output.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the destination for diagnostics.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Styles returns the active style set.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Println writes a line of primary output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted primary output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section heading. Markdown mode emits #-prefixed
// headings so piped output stays structured.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", strings.Repeat("#", level), text)
		return
	}
	style := r.styles.Header
	if level == 1 {
		style = r.styles.Title
	}
	_, _ = fmt.Fprintln(r.out, style.Render(text))
}

// Success writes a confirmation line.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Success.Render("✓ "+msg))
}

// Warning writes a warning line.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Warning.Render("! "+msg))
}

// Error writes an error line to the diagnostic writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
}

// Muted writes a de-emphasized line.
func (r *Renderer) Muted(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Muted.Render(msg))
}

// JSON writes v as indented JSON to the primary output. HTML escaping is
// off so operators like > survive verbatim.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
