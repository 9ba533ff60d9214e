// Package protocol implements the plain-text wire format spoken between
// the game server and a controlling client.
//
// Every frame travels as a size header of exactly seven ASCII digits,
// zero-padded decimal, followed by exactly that many payload bytes. The
// payload is line-oriented:
//
//	<maze rows> <enemies> <bullets> <score>
//	...maze rows, one tile-code string per line, present only when the
//	   grid shifted since the previous frame...
//	<color> <x> <y> <angle> <attack ready> <regen ready> <wounds>
//	...one enemy line per enemy: <color> <x> <y> <angle>...
//	...one bullet line per bullet: <color> <x> <y> <angle>...
//
// Positions are hundredths of a grid unit, angles integer degrees in
// [0, 360). The all-zeros header "0000000" carries no payload and means
// the session is over; the client must not reply to it.
//
// The client answers each frame with a single line:
//
//	<direction> <angle> <attack>
//
// where direction is a keypad code 0..8, angle is any integer number of
// degrees (normalized on receipt), and attack is 0 or 1. A line that does
// not parse is rejected whole and the previous intent stays in force.
package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// HeaderLen is the byte length of the size header.
const HeaderLen = 7

// MaxPayload is the largest payload the seven-digit header can announce.
const MaxPayload = 9999999

var sessionEnd = [HeaderLen]byte{'0', '0', '0', '0', '0', '0', '0'}

// EncodeFrame renders the frame payload without its size header.
func EncodeFrame(f *core.Frame) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d %d %d %d\n", len(f.Maze), len(f.Enemies), len(f.Bullets), f.Score)
	for _, row := range f.Maze {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%c %d %d %d %d %d %d\n",
		f.Hero.Color, f.Hero.X, f.Hero.Y, f.Hero.Angle,
		btoi(f.Hero.CanAttack), btoi(f.Hero.CanRegen), f.Hero.Wounds)
	for _, e := range f.Enemies {
		fmt.Fprintf(&b, "%c %d %d %d\n", e.Color, e.X, e.Y, e.Angle)
	}
	for _, e := range f.Bullets {
		fmt.Fprintf(&b, "%c %d %d %d\n", e.Color, e.X, e.Y, e.Angle)
	}
	return b.Bytes()
}

// WriteFrame sends one framed snapshot: the size header and the payload
// in a single write.
func WriteFrame(w io.Writer, f *core.Frame) error {
	payload := EncodeFrame(f)
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: payload of %d bytes exceeds the header range", ErrFraming, len(payload))
	}
	msg := make([]byte, 0, HeaderLen+len(payload))
	msg = append(msg, fmt.Sprintf("%07d", len(payload))...)
	msg = append(msg, payload...)
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("%w: write frame: %w", ErrTransport, err)
	}
	return nil
}

// WriteSessionEnd sends the all-zeros header that closes the exchange.
func WriteSessionEnd(w io.Writer) error {
	if _, err := w.Write(sessionEnd[:]); err != nil {
		return fmt.Errorf("%w: write session end: %w", ErrTransport, err)
	}
	return nil
}

// ReadFrame reads one framed snapshot from the peer. It returns
// ErrSessionEnd when the all-zeros header arrives.
func ReadFrame(r io.Reader) (core.Frame, error) {
	var head [HeaderLen]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return core.Frame{}, fmt.Errorf("%w: read size header: %w", ErrTransport, err)
	}
	size := 0
	for _, d := range head {
		if d < '0' || d > '9' {
			return core.Frame{}, fmt.Errorf("%w: size header %q is not seven digits", ErrFraming, head)
		}
		size = size*10 + int(d-'0')
	}
	if size == 0 {
		return core.Frame{}, ErrSessionEnd
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return core.Frame{}, fmt.Errorf("%w: payload truncated before %d bytes", ErrFraming, size)
		}
		return core.Frame{}, fmt.Errorf("%w: read payload: %w", ErrTransport, err)
	}
	return DecodeFrame(payload)
}

// DecodeFrame parses a frame payload. The counts on the first line must
// match the lines that follow exactly; nothing may trail the last line.
func DecodeFrame(payload []byte) (core.Frame, error) {
	var f core.Frame
	if len(payload) == 0 || payload[len(payload)-1] != '\n' {
		return f, fmt.Errorf("%w: payload must end with a newline", ErrDecode)
	}
	lines := strings.Split(string(payload[:len(payload)-1]), "\n")

	counts := strings.Fields(lines[0])
	if len(counts) != 4 {
		return f, fmt.Errorf("%w: count line has %d fields, want 4", ErrDecode, len(counts))
	}
	rows, err := parseCount(counts[0])
	if err != nil {
		return f, fmt.Errorf("%w: maze rows: %v", ErrDecode, err)
	}
	enemies, err := parseCount(counts[1])
	if err != nil {
		return f, fmt.Errorf("%w: enemy count: %v", ErrDecode, err)
	}
	bullets, err := parseCount(counts[2])
	if err != nil {
		return f, fmt.Errorf("%w: bullet count: %v", ErrDecode, err)
	}
	f.Score, err = parseCount(counts[3])
	if err != nil {
		return f, fmt.Errorf("%w: score: %v", ErrDecode, err)
	}

	if want := 1 + rows + 1 + enemies + bullets; len(lines) != want {
		return f, fmt.Errorf("%w: payload has %d lines, want %d", ErrDecode, len(lines), want)
	}

	if rows > 0 {
		f.Maze = make([]string, rows)
		width := len(lines[1])
		for i := 0; i < rows; i++ {
			row := lines[1+i]
			if len(row) != width {
				return core.Frame{}, fmt.Errorf("%w: maze row %d is %d wide, want %d", ErrDecode, i, len(row), width)
			}
			for j := 0; j < len(row); j++ {
				if !core.ValidCode(row[j]) {
					return core.Frame{}, fmt.Errorf("%w: maze row %d holds %q outside the tile alphabet", ErrDecode, i, row[j])
				}
			}
			f.Maze[i] = row
		}
	}

	f.Hero, err = parseHero(lines[1+rows])
	if err != nil {
		return core.Frame{}, err
	}

	base := 1 + rows + 1
	if enemies > 0 {
		f.Enemies = make([]core.Entity, enemies)
		for i := range f.Enemies {
			f.Enemies[i], err = parseEntity(lines[base+i], "enemy")
			if err != nil {
				return core.Frame{}, err
			}
		}
	}
	if bullets > 0 {
		f.Bullets = make([]core.Entity, bullets)
		for i := range f.Bullets {
			f.Bullets[i], err = parseEntity(lines[base+enemies+i], "bullet")
			if err != nil {
				return core.Frame{}, err
			}
		}
	}
	return f, nil
}

func parseHero(line string) (core.Hero, error) {
	var h core.Hero
	fields := strings.Fields(line)
	if len(fields) != 7 {
		return h, fmt.Errorf("%w: hero line has %d fields, want 7", ErrDecode, len(fields))
	}
	code, err := parseColor(fields[0])
	if err != nil {
		return h, fmt.Errorf("%w: hero color: %v", ErrDecode, err)
	}
	h.Color = code
	if h.X, err = strconv.Atoi(fields[1]); err != nil {
		return h, fmt.Errorf("%w: hero x: %v", ErrDecode, err)
	}
	if h.Y, err = strconv.Atoi(fields[2]); err != nil {
		return h, fmt.Errorf("%w: hero y: %v", ErrDecode, err)
	}
	if h.Angle, err = parseAngle(fields[3]); err != nil {
		return h, fmt.Errorf("%w: hero angle: %v", ErrDecode, err)
	}
	attack, err := parseFlag(fields[4])
	if err != nil {
		return h, fmt.Errorf("%w: attack flag: %v", ErrDecode, err)
	}
	regen, err := parseFlag(fields[5])
	if err != nil {
		return h, fmt.Errorf("%w: regen flag: %v", ErrDecode, err)
	}
	h.CanAttack, h.CanRegen = attack, regen
	wounds, err := strconv.Atoi(fields[6])
	if err != nil || wounds < 0 || wounds > 3 {
		return h, fmt.Errorf("%w: wound count %q outside 0..3", ErrDecode, fields[6])
	}
	h.Wounds = wounds
	return h, nil
}

func parseEntity(line, what string) (core.Entity, error) {
	var e core.Entity
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return e, fmt.Errorf("%w: %s line has %d fields, want 4", ErrDecode, what, len(fields))
	}
	code, err := parseColor(fields[0])
	if err != nil {
		return e, fmt.Errorf("%w: %s color: %v", ErrDecode, what, err)
	}
	e.Color = code
	if e.X, err = strconv.Atoi(fields[1]); err != nil {
		return e, fmt.Errorf("%w: %s x: %v", ErrDecode, what, err)
	}
	if e.Y, err = strconv.Atoi(fields[2]); err != nil {
		return e, fmt.Errorf("%w: %s y: %v", ErrDecode, what, err)
	}
	if e.Angle, err = parseAngle(fields[3]); err != nil {
		return e, fmt.Errorf("%w: %s angle: %v", ErrDecode, what, err)
	}
	return e, nil
}

func parseColor(s string) (byte, error) {
	if len(s) != 1 || !core.ValidCode(s[0]) {
		return 0, fmt.Errorf("%q is not a tile code", s)
	}
	return s[0], nil
}

func parseAngle(s string) (int, error) {
	a, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if a < 0 || a >= 360 {
		return 0, fmt.Errorf("%d outside [0, 360)", a)
	}
	return a, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("%q is not 0 or 1", s)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
