// Package input turns the raw byte stream of a terminal or SSH session into
// discrete key presses.
package input

import (
	"bufio"
	"slices"
)

// Key is one decoded key press.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyEnter
	KeyEscape
	KeyQuit
)

// Input holds everything pressed since the previous frame, in arrival order.
type Input struct {
	Keys    []Key
	Pressed []byte // Raw bytes, used for activity tracking
	Closed  bool   // The underlying reader is gone
}

// Has reports whether k was pressed this frame.
func (in Input) Has(k Key) bool {
	return slices.Contains(in.Keys, k)
}

// Stream delivers input bytes via a channel filled by a reader goroutine.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete escape sequence carried to the next frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	fresh := s.drain()
	keys, rest := Decode(append(s.pending, fresh...))

	// A lone ESC that saw no follow-up bytes for a whole frame is the Escape key.
	if len(rest) > 0 && len(fresh) == 0 {
		keys = append(keys, KeyEscape)
		rest = nil
	}
	s.pending = append([]byte(nil), rest...)

	return Input{Keys: keys, Pressed: fresh, Closed: s.closed}
}

// ResetKeyInput discards everything queued so far, including a partial escape
// sequence. Used when switching screens so stale presses don't leak through.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.drain()
	s.pending = nil
}

// drain returns the bytes that arrived since the last call.
func (s *Stream) drain() []byte {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

// Decode parses buf into keys. Arrow keys arrive as CSI (ESC [ x) or SS3 (ESC O x)
// sequences. A trailing incomplete sequence is returned in rest.
func Decode(buf []byte) (keys []Key, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			if k := keyForByte(b); k != KeyNone {
				keys = append(keys, k)
			}
			continue
		}

		if i+1 >= len(buf) {
			return keys, buf[i:]
		}
		if buf[i+1] != '[' && buf[i+1] != 'O' {
			keys = append(keys, KeyEscape)
			continue
		}
		if i+2 >= len(buf) {
			return keys, buf[i:]
		}
		if k := arrowKey(buf[i+2]); k != KeyNone {
			keys = append(keys, k)
		}
		i += 2
	}
	return keys, nil
}

func arrowKey(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyNone
}

func keyForByte(b byte) Key {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C arrives as a byte in raw mode
		return KeyQuit
	case 'a', 'A', 'j', 'J':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case 'w', 'W', 'i', 'I':
		return KeyUp
	case 's', 'S', 'k', 'K':
		return KeyDown
	case ' ':
		return KeySpace
	case '\n', '\r':
		return KeyEnter
	}
	return KeyNone
}
