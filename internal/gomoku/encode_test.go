package gomoku

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pos := NewPosition()
	for _, mv := range []Coord{{0, 0}, {14, 14}, {7, 7}, {7, 8}, {0, 14}} {
		if err := pos.Play(mv); err != nil {
			t.Fatalf("play: %v", err)
		}
	}
	enc := pos.Encode()
	got, err := DecodePosition(enc)
	if err != nil {
		t.Fatalf("decode %q: %v", enc, err)
	}
	if got.Board != pos.Board || got.SideToMove != pos.SideToMove || got.Hash != pos.Hash {
		t.Fatalf("round trip mismatch for %q", enc)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"too few rows": "15/15 x",
		"row overflow": strings.Repeat("15/", 14) + "16 x",
		"bad cell":     strings.Repeat("15/", 14) + "14z x",
		"bad side":     strings.Repeat("15/", 14) + "15 q",
		"short row":    strings.Repeat("15/", 14) + "14 x",
		"empty":        "",
	}
	for name, enc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodePosition(enc); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestParseGrid(t *testing.T) {
	rows := make([]string, Size)
	for i := range rows {
		rows[i] = strings.Repeat(".", Size)
	}
	rows[7] = ".....xxxx......"
	b, err := ParseGrid(rows)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.Count(Black) != 4 || b.At(Coord{7, 5}) != Black {
		t.Fatalf("unexpected board:\n%s", b)
	}
	if b2, err := ParseGrid(strings.Split(b.String(), "\n")); err != nil || *b2 != *b {
		t.Fatalf("String/ParseGrid round trip failed: %v", err)
	}

	if _, err := ParseGrid(rows[:14]); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 14 rows, got %v", err)
	}
	rows[3] = "...."
	if _, err := ParseGrid(rows); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short row, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	var b Board
	if err := b.Validate(); err != nil {
		t.Fatalf("empty board must validate: %v", err)
	}
	b.Cells[10] = Stone(7)
	if err := b.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := ValidatePlayer(Empty); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty player")
	}
	if err := ValidateCoord(Coord{15, 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for row 15")
	}
}
