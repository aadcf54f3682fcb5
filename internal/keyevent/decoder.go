// Package keyevent decodes a raw byte stream from the terminal into typed
// KeyEvent values, per spec.md §3 (Key Event) and §4.7.
//
// The single-byte/CSI/SS3 dispatch table is grounded on
// tea/internal/infrastructure/ansi/parser.go's Parser.ParseKey, extended to
// cover every sequence spec.md §4.7 requires that parser does
// not: the second Home/End form (ESC [ H / ESC [ F, alongside the ESC [ 1 ~ /
// ESC [ 4 ~ form already covered), Alt-combinations (ESC followed by a plain
// byte), and the CSI forms of F1-F12 omitted by an SS3-only table.
//
// The read loop's peek-ahead escape assembly is grounded on
// tea/internal/infrastructure/input/reader.go's Reader.Read, generalized
// from a buffered non-blocking peek to a real ~100ms timer so a bare Esc
// keystroke (no more bytes ever coming) resolves promptly instead of
// stalling on the next physical keypress — the behavior spec.md §4.7
// requires and a bare Buffered()>0 check does not, by itself, guarantee
// under a slow pty.
package keyevent

import (
	"bufio"
	"errors"
	"io"
	"time"
)

// Kind identifies the category of key event decoded.
type Kind int

const (
	KindRune Kind = iota
	KindEnter
	KindBackspace
	KindTab
	KindEsc
	KindUp
	KindDown
	KindLeft
	KindRight
	KindHome
	KindEnd
	KindPgUp
	KindPgDown
	KindInsert
	KindDelete
	KindF1
	KindF2
	KindF3
	KindF4
	KindF5
	KindF6
	KindF7
	KindF8
	KindF9
	KindF10
	KindF11
	KindF12
)

// Event is one decoded key event, per spec.md §3.
type Event struct {
	Kind Kind
	Rune rune // valid when Kind == KindRune
	Ctrl bool
	Alt  bool
}

// ErrClosed is returned by Decode once the underlying stream has ended
// (EOF), matching spec.md §4.7's end-of-input signal.
var ErrClosed = errors.New("keyevent: input closed")

// byteRead is one byte (or an error) delivered from the background reader
// goroutine, used to implement the timer-bounded escape assembly.
type byteRead struct {
	b   byte
	err error
}

// Decoder turns a raw byte stream into Events. Create one per read_line
// call; it owns a background goroutine reading from r for the lifetime of
// the Decoder.
type Decoder struct {
	escapeTimeout time.Duration
	ch            chan byteRead
	done          chan struct{}
	closed        bool
}

// NewDecoder starts a Decoder reading from r, resolving an incomplete
// escape sequence after escapeTimeout (spec.md §4.7's default: 100ms, see
// Config.EscapeTimeout).
func NewDecoder(r io.Reader, escapeTimeout time.Duration) *Decoder {
	if escapeTimeout <= 0 {
		escapeTimeout = 100 * time.Millisecond
	}
	d := &Decoder{
		escapeTimeout: escapeTimeout,
		ch:            make(chan byteRead),
		done:          make(chan struct{}),
	}
	go d.pump(bufio.NewReader(r))
	return d
}

// pump reads one byte at a time and relays it on d.ch, exiting when d.done
// is closed or the underlying reader errors. Grounded on the
// read-in-a-goroutine/relay-on-a-channel shape of cancelable_reader.go,
// simplified from a full pipe relay (which exists there to let an external
// process reclaim stdin) to a byte channel, since this Decoder's only
// cancellation need is process-lifetime, not stdin-handoff.
func (d *Decoder) pump(r *bufio.Reader) {
	for {
		b, err := r.ReadByte()
		select {
		case d.ch <- byteRead{b: b, err: err}:
		case <-d.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// Close stops the background reader goroutine. Safe to call more than
// once.
func (d *Decoder) Close() {
	if d.closed {
		return
	}
	d.closed = true
	close(d.done)
}

// Decode blocks for the next key event. It returns ErrClosed once the
// input stream ends.
func (d *Decoder) Decode() (Event, error) {
	first, err := d.next()
	if err != nil {
		return Event{}, err
	}

	if first != 0x1B {
		return decodeSingleByte(first, d)
	}

	// Escape seen: try to assemble a full sequence within escapeTimeout.
	// A bare Esc keystroke never produces a second byte, so the timeout
	// (not a byte count) is what resolves it.
	seq := []byte{first}
	timer := time.NewTimer(d.escapeTimeout)
	defer timer.Stop()

	for {
		select {
		case br := <-d.ch:
			if br.err != nil {
				if len(seq) == 1 {
					return Event{Kind: KindEsc}, nil
				}
				return parseEscapeSequence(seq), nil
			}
			seq = append(seq, br.b)
			if isSequenceTerminator(seq) {
				return parseEscapeSequence(seq), nil
			}
			if len(seq) >= 8 {
				// Defensive cap: no sequence this package recognizes is
				// longer than 5 bytes; anything longer is noise.
				return parseEscapeSequence(seq), nil
			}
		case <-timer.C:
			if len(seq) == 1 {
				return Event{Kind: KindEsc}, nil
			}
			return parseEscapeSequence(seq), nil
		}
	}
}

func (d *Decoder) next() (byte, error) {
	br := <-d.ch
	if br.err != nil {
		return 0, mapReadErr(br.err)
	}
	return br.b, nil
}

func mapReadErr(err error) error {
	if err == io.EOF {
		return ErrClosed
	}
	return err
}

// isSequenceTerminator reports whether seq, so far, looks complete: a CSI
// sequence ends on its final byte (0x40-0x7E), an SS3 sequence is always
// exactly 3 bytes, and a bare Alt-combo (ESC + one printable byte) is
// complete at 2 bytes.
func isSequenceTerminator(seq []byte) bool {
	if len(seq) < 2 {
		return false
	}
	switch seq[1] {
	case '[':
		if len(seq) < 3 {
			return false
		}
		last := seq[len(seq)-1]
		return last >= 0x40 && last <= 0x7E
	case 'O':
		return len(seq) == 3
	default:
		// ESC followed directly by a non-CSI/SS3 byte: an Alt-combination,
		// complete after that one byte.
		return len(seq) == 2
	}
}

func decodeSingleByte(b byte, d *Decoder) (Event, error) {
	switch b {
	case 0x0D, 0x0A:
		return Event{Kind: KindEnter}, nil
	case 0x7F, 0x08:
		return Event{Kind: KindBackspace}, nil
	case 0x09:
		return Event{Kind: KindTab}, nil
	}
	if b >= 1 && b <= 26 && b != 0x08 && b != 0x09 && b != 0x0A && b != 0x0D {
		return Event{Kind: KindRune, Rune: rune('a' + b - 1), Ctrl: true}, nil
	}
	if b >= 0x80 {
		return decodeUTF8Rune(b, d)
	}
	if b >= 32 && b <= 126 {
		return Event{Kind: KindRune, Rune: rune(b)}, nil
	}
	return Event{Kind: KindRune, Rune: rune(0xFFFD)}, nil
}

// decodeUTF8Rune assembles a multi-byte UTF-8 codepoint, grounded on
// reader.go's ReadRune fallback for bytes >= 0x80, adapted to this
// package's channel-based byte source instead of bufio.Reader.ReadRune.
func decodeUTF8Rune(first byte, d *Decoder) (Event, error) {
	size := utf8SeqLen(first)
	buf := make([]byte, 0, size)
	buf = append(buf, first)
	for len(buf) < size {
		b, err := d.next()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	r := decodeRune(buf)
	return Event{Kind: KindRune, Rune: r}, nil
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

func decodeRune(buf []byte) rune {
	if len(buf) == 0 {
		return 0xFFFD
	}
	if len(buf) == 1 {
		return rune(buf[0])
	}
	r := rune(buf[0] & (0xFF >> uint(len(buf)+1)))
	for _, cb := range buf[1:] {
		if cb&0xC0 != 0x80 {
			return 0xFFFD
		}
		r = (r << 6) | rune(cb&0x3F)
	}
	return r
}

// parseEscapeSequence dispatches an assembled ESC-prefixed byte sequence,
// grounded on ansi.Parser.ParseKey's switch, extended with CSI-form
// function keys and Alt-combinations per spec.md §4.7.
func parseEscapeSequence(seq []byte) Event {
	if len(seq) == 2 {
		// Alt + <byte>, spec.md §4.7's Alt-combination form.
		return decodeAltCombo(seq[1])
	}
	if len(seq) == 3 && seq[1] == '[' {
		switch seq[2] {
		case 'A':
			return Event{Kind: KindUp}
		case 'B':
			return Event{Kind: KindDown}
		case 'C':
			return Event{Kind: KindRight}
		case 'D':
			return Event{Kind: KindLeft}
		case 'H':
			return Event{Kind: KindHome}
		case 'F':
			return Event{Kind: KindEnd}
		case 'P':
			return Event{Kind: KindF1}
		case 'Q':
			return Event{Kind: KindF2}
		case 'R':
			return Event{Kind: KindF3}
		case 'S':
			return Event{Kind: KindF4}
		}
	}
	if len(seq) == 3 && seq[1] == 'O' {
		switch seq[2] {
		case 'P':
			return Event{Kind: KindF1}
		case 'Q':
			return Event{Kind: KindF2}
		case 'R':
			return Event{Kind: KindF3}
		case 'S':
			return Event{Kind: KindF4}
		}
	}
	if len(seq) >= 4 && seq[1] == '[' && seq[len(seq)-1] == '~' {
		params := string(seq[2 : len(seq)-1])
		switch params {
		case "1":
			return Event{Kind: KindHome}
		case "2":
			return Event{Kind: KindInsert}
		case "3":
			return Event{Kind: KindDelete}
		case "4":
			return Event{Kind: KindEnd}
		case "5":
			return Event{Kind: KindPgUp}
		case "6":
			return Event{Kind: KindPgDown}
		case "15":
			return Event{Kind: KindF5}
		case "17":
			return Event{Kind: KindF6}
		case "18":
			return Event{Kind: KindF7}
		case "19":
			return Event{Kind: KindF8}
		case "20":
			return Event{Kind: KindF9}
		case "21":
			return Event{Kind: KindF10}
		case "23":
			return Event{Kind: KindF11}
		case "24":
			return Event{Kind: KindF12}
		}
	}
	// Unrecognized sequence: surface as a bare Esc; the sequence's other
	// bytes are consumed with it and not delivered as separate keys
	// (lenient per spec.md §4.7's "unrecognized sequence" edge case).
	return Event{Kind: KindEsc}
}

// decodeAltCombo maps ESC + b to the Alt-modified event spec.md §4.7
// describes: every printable ASCII byte (0x20-0x7E) becomes Alt+rune,
// with no distinct Kind for the bound ones (b, f, d, u, y), leaving
// dispatch (internal/editcmd) to interpret Alt+rune combinations. Any
// other byte yields a bare Esc.
func decodeAltCombo(b byte) Event {
	if b >= 32 && b <= 126 {
		return Event{Kind: KindRune, Rune: rune(b), Alt: true}
	}
	return Event{Kind: KindEsc}
}
