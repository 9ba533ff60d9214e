package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected core.Command
	}{
		{"plain", "4 225 0", core.Command{Direction: 4, Angle: 225, Attack: 0}},
		{"attack", "8 0 1", core.Command{Direction: 8, Angle: 0, Attack: 1}},
		{"angle wraps forward", "0 370 1", core.Command{Direction: 0, Angle: 10, Attack: 1}},
		{"angle wraps backward", "5 -90 0", core.Command{Direction: 5, Angle: 270, Attack: 0}},
		{"trailing newline", "1 45 0\n", core.Command{Direction: 1, Angle: 45, Attack: 0}},
		{"trailing crlf", "1 45 0\r\n", core.Command{Direction: 1, Angle: 45, Attack: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCommand(tc.line)
			if err != nil {
				t.Fatalf("ParseCommand(%q) failed: %v", tc.line, err)
			}
			if got != tc.expected {
				t.Errorf("ParseCommand(%q) = %+v, expected %+v", tc.line, got, tc.expected)
			}
		})
	}
}

func TestParseCommandRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"direction and attack out of range", "9 370 2"},
		{"direction negative", "-1 0 0"},
		{"direction not a number", "x 0 0"},
		{"angle not a number", "4 north 0"},
		{"attack flag 2", "4 90 2"},
		{"too few fields", "4 90"},
		{"too many fields", "4 90 0 1"},
		{"empty line", "\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCommand(tc.line)
			if !errors.Is(err, ErrInvalidCommand) {
				t.Errorf("ParseCommand(%q) = %v, expected ErrInvalidCommand", tc.line, err)
			}
		})
	}
}

func TestReadCommand(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("4 225 0\n7 180 1\n"))

	first, err := ReadCommand(r)
	if err != nil {
		t.Fatalf("First ReadCommand failed: %v", err)
	}
	if first.Direction != 4 || first.Angle != 225 {
		t.Errorf("First command = %+v", first)
	}

	second, err := ReadCommand(r)
	if err != nil {
		t.Fatalf("Second ReadCommand failed: %v", err)
	}
	if second.Direction != 7 || second.Attack != 1 {
		t.Errorf("Second command = %+v", second)
	}

	_, err = ReadCommand(r)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("ReadCommand at EOF = %v, expected ErrTransport", err)
	}
}

func TestReadCommandKeepsStreamAfterRejection(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("garbage line\n4 90 1\n"))

	if _, err := ReadCommand(r); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("Expected ErrInvalidCommand, got %v", err)
	}

	// The bad line is consumed whole; the next command parses cleanly.
	got, err := ReadCommand(r)
	if err != nil {
		t.Fatalf("ReadCommand after rejection failed: %v", err)
	}
	if got.Direction != 4 || got.Angle != 90 || got.Attack != 1 {
		t.Errorf("Command after rejection = %+v", got)
	}
}

func TestWriteCommand(t *testing.T) {
	var buf bytes.Buffer
	c := core.Command{Direction: 5, Angle: 180, Attack: 1}
	if err := WriteCommand(&buf, c); err != nil {
		t.Fatalf("WriteCommand failed: %v", err)
	}
	if buf.String() != "5 180 1\n" {
		t.Errorf("Wire form = %q, expected %q", buf.String(), "5 180 1\n")
	}
}
