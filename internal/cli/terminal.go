package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/picker"
)

const (
	escape      = 0x1b
	clearScreen = "\x1b[H\x1b[2J"
)

// keyReader splits terminal input into key presses. An arrow key arrives
// as a three byte escape sequence; everything else is one byte.
type keyReader struct {
	r *bufio.Reader
}

func newKeyReader(r io.Reader) *keyReader {
	return &keyReader{r: bufio.NewReader(r)}
}

func (k *keyReader) next() ([]byte, error) {
	b, err := k.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if b != escape || k.r.Buffered() < 2 {
		return []byte{b}, nil
	}

	seq, err := k.r.Peek(2)
	if err != nil || (seq[0] != '[' && seq[0] != 'O') {
		return []byte{b}, nil
	}
	key := []byte{b, seq[0], seq[1]}
	_, _ = k.r.Discard(2)
	return key, nil
}

// screen redraws a picker on stderr. On a terminal the screen is cleared
// before every frame; in raw mode newlines need an explicit carriage return.
type screen struct {
	w   io.Writer
	tty bool
	raw bool
}

func (s *screen) draw(frame string) {
	if s.raw {
		frame = strings.ReplaceAll(frame, "\n", "\r\n")
	}
	if s.tty {
		frame = clearScreen + frame
	}
	_, _ = io.WriteString(s.w, frame)
}

// handler is implemented by every picker state machine.
type handler interface {
	Handle(picker.Event) bool
}

// runPicker feeds key presses from stdin into h until it is done, redrawing
// with render after every event. When stdin is a terminal it is switched to
// raw mode for the duration.
func (a *app) runPicker(h handler, render func() string) error {
	scr := &screen{w: a.stderr, tty: isTerminal(a.stderr)}

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to switch the terminal to raw mode", err)
		}
		scr.raw = true
		defer func() { _ = term.Restore(int(f.Fd()), state) }()
	}

	keys := newKeyReader(a.stdin)
	scr.draw(render())
	for {
		key, err := keys.next()
		if errors.Is(err, io.EOF) {
			return model.NewCLIError(model.ExitUserCancelled, "input closed before a choice was made")
		}
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read input", err)
		}

		ev := picker.KeyEvent(key)
		done := h.Handle(ev)
		a.VerboseLog("key %q: %s", key, ev)
		scr.draw(render())
		if done {
			return nil
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
