package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
)

var (
	colorError   = lipgloss.Color("#F43F5E")
	colorWarning = lipgloss.Color("#F97316")
	colorInfo    = lipgloss.Color("#14B8A6")
	colorDim     = lipgloss.Color("#94A3B8")
)

var (
	errorBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	warningBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarning)

	infoBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorInfo)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)
)

// styledNotifier prints pipeline notices as a single coloured line.
type styledNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newStyledNotifier(w io.Writer) *styledNotifier {
	return &styledNotifier{w: w}
}

func badgeFor(s client.Severity) lipgloss.Style {
	switch s {
	case client.SeverityError:
		return errorBadge
	case client.SeverityWarning:
		return warningBadge
	default:
		return infoBadge
	}
}

func (n *styledNotifier) Notify(_ context.Context, notice client.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	label := badgeFor(notice.Severity).Render(fmt.Sprintf("[%s]", notice.Severity))
	fmt.Fprintf(n.w, "%s %s\n", label, notice.Message)
}
