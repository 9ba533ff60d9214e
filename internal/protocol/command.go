package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// ParseCommand parses one control line. Validation is all-or-nothing: a
// direction outside 0..8 or an attack flag outside {0, 1} rejects the
// whole command, and the caller keeps steering on the previous intent.
// The angle accepts any integer and is normalized into [0, 360).
func ParseCommand(line string) (core.Command, error) {
	var c core.Command
	fields := strings.Fields(strings.TrimRight(line, "\r\n"))
	if len(fields) != 3 {
		return c, fmt.Errorf("%w: %d fields, want 3", ErrInvalidCommand, len(fields))
	}
	dir, err := strconv.Atoi(fields[0])
	if err != nil || dir < core.DirUpLeft || dir > core.DirDownRight {
		return c, fmt.Errorf("%w: direction %q outside 0..8", ErrInvalidCommand, fields[0])
	}
	angle, err := strconv.Atoi(fields[1])
	if err != nil {
		return c, fmt.Errorf("%w: angle %q is not an integer", ErrInvalidCommand, fields[1])
	}
	attack, err := strconv.Atoi(fields[2])
	if err != nil || attack < 0 || attack > 1 {
		return c, fmt.Errorf("%w: attack flag %q outside {0, 1}", ErrInvalidCommand, fields[2])
	}
	c.Direction = dir
	c.Angle = core.NormDeg(angle)
	c.Attack = attack
	return c, nil
}

// ReadCommand reads one newline-terminated control line from the peer
// and parses it. Read failures are transport errors; parse failures come
// back as ErrInvalidCommand with the connection still usable.
func ReadCommand(r *bufio.Reader) (core.Command, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return core.Command{}, fmt.Errorf("%w: read command: %w", ErrTransport, err)
	}
	return ParseCommand(line)
}

// WriteCommand sends one control line in wire form.
func WriteCommand(w io.Writer, c core.Command) error {
	if _, err := fmt.Fprintf(w, "%d %d %d\n", c.Direction, c.Angle, c.Attack); err != nil {
		return fmt.Errorf("%w: write command: %w", ErrTransport, err)
	}
	return nil
}
