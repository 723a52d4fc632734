package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Progress shows a spinner while a blocking operation runs. A quiet Progress
// prints nothing.
type Progress struct {
	s     *spinner.Spinner
	quiet bool
}

// StartProgress starts a spinner on w with the given message.
func StartProgress(w io.Writer, message string, quiet bool) *Progress {
	if quiet {
		return &Progress{quiet: true}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	return &Progress{s: s}
}

// Succeed stops the spinner and prints a green check with message.
func (p *Progress) Succeed(message string) {
	p.stop(text.FgGreen.Sprint("✓") + " " + message + "\n")
}

// Fail stops the spinner and prints a red cross with message.
func (p *Progress) Fail(message string) {
	p.stop(text.FgRed.Sprint("✗") + " " + message + "\n")
}

func (p *Progress) stop(final string) {
	if p.quiet || p.s == nil {
		return
	}
	p.s.FinalMSG = final
	p.s.Stop()
}
