package viz

import (
	"fmt"
	"io"
	"os"
)

// Notifier prints search notices to W, defaulting to stdout.
type Notifier struct {
	W io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{W: w}
}

func (n *Notifier) out() io.Writer {
	if n.W == nil {
		return os.Stdout
	}
	return n.W
}

func (n *Notifier) Hint(msg string) {
	fmt.Fprintln(n.out(), HintStyle.Render(msg))
}

func (n *Notifier) Accepted(msg string) {
	fmt.Fprintf(n.out(), "%s: %s\n", AcceptedStyle.Render("[OK]"), msg)
}

func (n *Notifier) Rejected(msg string) {
	fmt.Fprintf(n.out(), "%s: %s\n", RejectedStyle.Render("[REJECTED]"), msg)
}
