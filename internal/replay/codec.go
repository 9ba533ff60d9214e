// Package replay records sessions and plays them back. A replay file is
// one compact JSON array; each element is an object with short keys:
//
//	s  score
//	t  milliseconds since the previous record
//	m  maze rows, omitted while the grid is hidden mid-slide
//	h  hero as [color, x, y, angle, attack ready, wounds]
//	e  enemies as [color, x, y, angle], omitted when empty
//	b  bullets likewise
//
// Colors are one-character tile codes. The decoder additionally accepts
// a bare number 0..9 where a color is expected and reads it as the
// corresponding digit code, since some writers emit the empty code '0'
// as a JSON number.
package replay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/mazebrawl/internal/core"
	"github.com/vovakirdan/mazebrawl/internal/protocol"
)

// Encode renders frames as one compact JSON array. Output is
// deterministic: fixed key order, no whitespace.
func Encode(frames []core.Frame) []byte {
	var b bytes.Buffer
	b.WriteByte('[')
	for i := range frames {
		if i > 0 {
			b.WriteByte(',')
		}
		appendRecord(&b, &frames[i])
	}
	b.WriteByte(']')
	return b.Bytes()
}

// EncodeRecord renders a single frame in the replay record shape. The
// spectate stream sends frames one record at a time in this form.
func EncodeRecord(f *core.Frame) []byte {
	var b bytes.Buffer
	appendRecord(&b, f)
	return b.Bytes()
}

func appendRecord(b *bytes.Buffer, f *core.Frame) {
	fmt.Fprintf(b, `{"s":%d,"t":%d`, f.Score, f.Delay)
	if f.HasMaze() {
		b.WriteString(`,"m":[`)
		for i, row := range f.Maze {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%q", row)
		}
		b.WriteByte(']')
	}
	h := &f.Hero
	attack := 0
	if h.CanAttack {
		attack = 1
	}
	fmt.Fprintf(b, `,"h":["%c",%d,%d,%d,%d,%d]`, h.Color, h.X, h.Y, h.Angle, attack, h.Wounds)
	appendEntities(b, 'e', f.Enemies)
	appendEntities(b, 'b', f.Bullets)
	b.WriteByte('}')
}

func appendEntities(b *bytes.Buffer, key byte, entities []core.Entity) {
	if len(entities) == 0 {
		return
	}
	fmt.Fprintf(b, `,"%c":[`, key)
	for i, e := range entities {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, `["%c",%d,%d,%d]`, e.Color, e.X, e.Y, e.Angle)
	}
	b.WriteByte(']')
}

// rawRecord is the free-form shape a record parses into before
// validation. Pointers distinguish absent keys from zero values.
type rawRecord struct {
	S *int     `json:"s"`
	T *int     `json:"t"`
	M []string `json:"m"`
	H []any    `json:"h"`
	E [][]any  `json:"e"`
	B [][]any  `json:"b"`
}

// Decode parses a replay file into frames. Delay carries each record's t.
func Decode(data []byte) ([]core.Frame, error) {
	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: replay: %v", protocol.ErrDecode, err)
	}

	frames := make([]core.Frame, len(raws))
	for i := range raws {
		f, err := convertRecord(&raws[i])
		if err != nil {
			return nil, fmt.Errorf("%w: replay record %d: %v", protocol.ErrDecode, i, err)
		}
		frames[i] = f
	}
	return frames, nil
}

func convertRecord(r *rawRecord) (core.Frame, error) {
	var f core.Frame
	if r.S == nil || *r.S < 0 {
		return f, fmt.Errorf("score missing or negative")
	}
	if r.T == nil || *r.T < 0 {
		return f, fmt.Errorf("delay missing or negative")
	}
	f.Score, f.Delay = *r.S, *r.T

	if len(r.M) > 0 {
		width := len(r.M[0])
		for i, row := range r.M {
			if len(row) != width {
				return core.Frame{}, fmt.Errorf("maze row %d is %d wide, want %d", i, len(row), width)
			}
			for j := 0; j < len(row); j++ {
				if !core.ValidCode(row[j]) {
					return core.Frame{}, fmt.Errorf("maze row %d holds %q outside the tile alphabet", i, row[j])
				}
			}
		}
		f.Maze = append([]string(nil), r.M...)
	}

	if len(r.H) != 6 {
		return core.Frame{}, fmt.Errorf("hero has %d entries, want 6", len(r.H))
	}
	color, err := colorElem(r.H[0])
	if err != nil {
		return core.Frame{}, fmt.Errorf("hero color: %v", err)
	}
	x, y, angle, err := poseElems(r.H[1], r.H[2], r.H[3])
	if err != nil {
		return core.Frame{}, fmt.Errorf("hero: %v", err)
	}
	attack, err := flagElem(r.H[4])
	if err != nil {
		return core.Frame{}, fmt.Errorf("hero attack flag: %v", err)
	}
	wounds, err := intElem(r.H[5])
	if err != nil || wounds < 0 || wounds > 3 {
		return core.Frame{}, fmt.Errorf("hero wounds %v outside 0..3", r.H[5])
	}
	f.Hero = core.Hero{Color: color, X: x, Y: y, Angle: angle, CanAttack: attack, Wounds: wounds}

	if f.Enemies, err = convertEntities(r.E, "enemy"); err != nil {
		return core.Frame{}, err
	}
	if f.Bullets, err = convertEntities(r.B, "bullet"); err != nil {
		return core.Frame{}, err
	}
	return f, nil
}

func convertEntities(raws [][]any, what string) ([]core.Entity, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	entities := make([]core.Entity, len(raws))
	for i, raw := range raws {
		if len(raw) != 4 {
			return nil, fmt.Errorf("%s %d has %d entries, want 4", what, i, len(raw))
		}
		color, err := colorElem(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s %d color: %v", what, i, err)
		}
		x, y, angle, err := poseElems(raw[1], raw[2], raw[3])
		if err != nil {
			return nil, fmt.Errorf("%s %d: %v", what, i, err)
		}
		entities[i] = core.Entity{Color: color, X: x, Y: y, Angle: angle}
	}
	return entities, nil
}

func poseElems(xv, yv, av any) (x, y, angle int, err error) {
	if x, err = intElem(xv); err != nil {
		return 0, 0, 0, fmt.Errorf("x: %v", err)
	}
	if y, err = intElem(yv); err != nil {
		return 0, 0, 0, fmt.Errorf("y: %v", err)
	}
	if angle, err = intElem(av); err != nil || angle < 0 || angle >= 360 {
		return 0, 0, 0, fmt.Errorf("angle %v outside [0, 360)", av)
	}
	return x, y, angle, nil
}

func colorElem(v any) (byte, error) {
	switch c := v.(type) {
	case string:
		if len(c) == 1 && core.ValidCode(c[0]) {
			return c[0], nil
		}
		return 0, fmt.Errorf("%q is not a tile code", c)
	case float64:
		n := int(c)
		if float64(n) == c && n >= 0 && n <= 9 {
			return byte('0' + n), nil
		}
		return 0, fmt.Errorf("%v is not a digit code", c)
	default:
		return 0, fmt.Errorf("%T cannot be a color", v)
	}
}

func intElem(v any) (int, error) {
	c, ok := v.(float64)
	if !ok || float64(int(c)) != c {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	return int(c), nil
}

func flagElem(v any) (bool, error) {
	n, err := intElem(v)
	if err != nil || n < 0 || n > 1 {
		return false, fmt.Errorf("%v is not 0 or 1", v)
	}
	return n == 1, nil
}
