package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

func sampleFrame() core.Frame {
	return core.Frame{
		Maze: []string{
			"vvv00vvv",
			"v000000v",
			"v000000v",
			"vvv00vvv",
		},
		Hero:    core.Hero{Color: 'w', X: 5000, Y: 5000, Angle: 45, CanAttack: true, CanRegen: false, Wounds: 1},
		Enemies: []core.Entity{{Color: 'a', X: 1200, Y: 3400, Angle: 90}, {Color: 't', X: 7800, Y: 100, Angle: 359}},
		Bullets: []core.Entity{{Color: 'v', X: 5100, Y: 4900, Angle: 45}},
		Score:   12,
	}
}

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame core.Frame
	}{
		{"full frame", sampleFrame()},
		{
			"no grid, no entities",
			core.Frame{Hero: core.Hero{Color: 'v', X: 50, Y: 50, Angle: 225}},
		},
		{
			"grid only",
			core.Frame{Maze: []string{"00", "00"}, Hero: core.Hero{Color: 'y', Wounds: 3}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeFrame(EncodeFrame(&tc.frame))
			if err != nil {
				t.Fatalf("DecodeFrame failed: %v", err)
			}
			if !reflect.DeepEqual(decoded, tc.frame) {
				t.Errorf("Round trip changed the frame:\ngot  %+v\nwant %+v", decoded, tc.frame)
			}
		})
	}
}

func TestEncodeFrameDeterministic(t *testing.T) {
	f := sampleFrame()
	a := EncodeFrame(&f)
	b := EncodeFrame(&f)
	if !bytes.Equal(a, b) {
		t.Error("Encoding the same frame twice should produce identical bytes")
	}
}

func TestWriteFrameHeader(t *testing.T) {
	f := sampleFrame()
	var buf bytes.Buffer
	if err := WriteFrame(&buf, &f); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	msg := buf.Bytes()
	if len(msg) < HeaderLen {
		t.Fatalf("Message too short: %d bytes", len(msg))
	}
	head := string(msg[:HeaderLen])
	payload := msg[HeaderLen:]

	for _, d := range head {
		if d < '0' || d > '9' {
			t.Fatalf("Header %q should be all digits", head)
		}
	}
	if want := fmt.Sprintf("%07d", len(payload)); head != want {
		t.Errorf("Header = %q, expected %q", head, want)
	}
}

func TestReadFrame(t *testing.T) {
	f := sampleFrame()
	var buf bytes.Buffer
	if err := WriteFrame(&buf, &f); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if !reflect.DeepEqual(got, f) {
		t.Errorf("ReadFrame changed the frame:\ngot  %+v\nwant %+v", got, f)
	}
}

func TestReadFrameSessionEnd(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSessionEnd(&buf); err != nil {
		t.Fatalf("WriteSessionEnd failed: %v", err)
	}
	if buf.String() != "0000000" {
		t.Errorf("Sentinel = %q, expected %q", buf.String(), "0000000")
	}

	_, err := ReadFrame(&buf)
	if !errors.Is(err, ErrSessionEnd) {
		t.Errorf("ReadFrame on the sentinel = %v, expected ErrSessionEnd", err)
	}
}

func TestReadFrameFramingErrors(t *testing.T) {
	tests := []struct {
		name  string
		wire  string
		class error
	}{
		{"header not digits", "00x0010whatever", ErrFraming},
		{"payload truncated", "0000050" + "1 0 0 0\n00\n", ErrFraming},
		{"header cut short", "0000", ErrTransport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadFrame(strings.NewReader(tc.wire))
			if !errors.Is(err, tc.class) {
				t.Errorf("ReadFrame = %v, expected class %v", err, tc.class)
			}
		})
	}
}

func TestDecodeFrameRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty payload", ""},
		{"missing final newline", "0 0 0 0\nv 1 2 3 0 0 0"},
		{"count line too short", "0 0 0\nv 1 2 3 0 0 0\n"},
		{"negative count", "-1 0 0 0\nv 1 2 3 0 0 0\n"},
		{"row count mismatch", "2 0 0 0\n00\nv 1 2 3 0 0 0\n"},
		{"unequal row widths", "2 0 0 0\n000\n00\nv 1 2 3 0 0 0\n"},
		{"tile outside alphabet", "1 0 0 0\n0#\nv 1 2 3 0 0 0\n"},
		{"hero line too short", "0 0 0 0\nv 1 2 3 0 0\n"},
		{"hero color not a code", "0 0 0 0\nV 1 2 3 0 0 0\n"},
		{"hero angle out of range", "0 0 0 0\nv 1 2 360 0 0 0\n"},
		{"attack flag not boolean", "0 0 0 0\nv 1 2 3 2 0 0\n"},
		{"wounds out of range", "0 0 0 0\nv 1 2 3 0 0 4\n"},
		{"enemy line missing", "0 1 0 0\nv 1 2 3 0 0 0\n"},
		{"enemy line too long", "0 1 0 0\nv 1 2 3 0 0 0\na 1 2 3 4\n"},
		{"bullet angle negative", "0 0 1 0\nv 1 2 3 0 0 0\nv 1 2 -5\n"},
		{"trailing garbage", "0 0 0 0\nv 1 2 3 0 0 0\nleftover\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFrame([]byte(tc.payload))
			if !errors.Is(err, ErrDecode) {
				t.Errorf("DecodeFrame = %v, expected ErrDecode", err)
			}
		})
	}
}

func TestDecodeFrameGridOmitted(t *testing.T) {
	payload := "0 0 0 5\nw 5000 4800 90 1 1 2\n"
	f, err := DecodeFrame([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if f.HasMaze() {
		t.Error("A zero row count should leave the frame without a grid")
	}
	if f.Score != 5 {
		t.Errorf("Score = %d, expected 5", f.Score)
	}
	if f.Hero.Wounds != 2 || !f.Hero.CanAttack || !f.Hero.CanRegen {
		t.Errorf("Hero decoded wrong: %+v", f.Hero)
	}
}
