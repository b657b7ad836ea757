// Package logging provides the terminal log handler used by the mpbas CLI.
//
// The handler prints one line per entry with the level, the message and
// the entry fields. In verbose mode errors attached with the "error" field
// are followed by their stack trace.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

var (
	bold    = color.New(color.Bold)
	boldRed = color.New(color.Bold, color.FgRed)
)

// Strings holds the padded level names.
var Strings = [...]string{
	log.DebugLevel: "DEBUG",
	log.InfoLevel:  " INFO",
	log.WarnLevel:  " WARN",
	log.ErrorLevel: "ERROR",
	log.FatalLevel: "FATAL",
}

// Handler implements log.Handler for terminal output.
type Handler struct {
	mu      sync.Mutex
	Writer  io.Writer
	Padding int

	// Timestamps prefixes every line with the entry time.
	Timestamps bool

	// StackTraces prints the stack trace of "error" fields.
	StackTraces bool

	now func() time.Time
}

// New returns a Handler writing to w. Colors are only emitted when w is a
// file and useColors is set; anything else gets plain text.
func New(w io.Writer, useColors bool) *Handler {
	h := &Handler{Padding: 2, now: time.Now}
	if f, ok := w.(*os.File); ok && useColors {
		h.Writer = colorable.NewColorable(f)
	} else {
		h.Writer = colorable.NewNonColorable(w)
	}
	return h
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	c := cli.Colors[e.Level]
	names := e.Fields.Names()

	h.mu.Lock()
	defer h.mu.Unlock()

	level := bold.Sprintf("%*s", h.Padding+1, Strings[e.Level])
	if h.Timestamps {
		c.Fprintf(h.Writer, "%s: [%s] %-25s", level, h.now().Format(time.StampMilli), e.Message)
	} else {
		c.Fprintf(h.Writer, "%s: %-25s", level, e.Message)
	}

	for _, name := range names {
		if name == "source" {
			continue
		}
		fmt.Fprintf(h.Writer, " %s=%v", c.Sprint(name), e.Fields.Get(name))
	}
	fmt.Fprintln(h.Writer)

	if !h.StackTraces {
		return nil
	}
	if err, ok := e.Fields.Get("error").(error); ok {
		// Attach a stack trace if the error does not carry one yet, skipping
		// this frame.
		err = errors.WithStackDepthIf(err, 1)
		fmt.Fprintf(h.Writer, "\n%s\n%+v\n\n", boldRed.Sprint("Stacktrace:"), err)
	}
	return nil
}

// Configure installs a Handler writing to w as the apex/log default and
// sets the level: debug when verbose, info otherwise.
func Configure(w io.Writer, verbose bool) *Handler {
	h := New(w, true)
	h.Timestamps = verbose
	h.StackTraces = verbose

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	log.SetHandler(h)
	return h
}
