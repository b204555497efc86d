package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Styles accepted by Render besides "plain".
const (
	StylePlain = "plain" // raw markdown, no rendering
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
	StyleDark  = "dark"
	StyleLight = "light"
)

// Render turns markdown into terminal output. The plain style returns the
// markdown unchanged.
func Render(md, style string, width int) (string, error) {
	if style == StylePlain {
		return md, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
