package flexpolyline

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestAlphabetTables(t *testing.T) {
	if len(encodingTable) != 64 {
		t.Fatalf("encoding table has %d symbols, want 64", len(encodingTable))
	}
	valid := 0
	for i, v := range decodingTable {
		if v < 0 {
			continue
		}
		valid++
		if encodingTable[v] != byte(i) {
			t.Errorf("decodingTable[%q] = %d, but encodingTable[%d] = %q", byte(i), v, v, encodingTable[v])
		}
	}
	if valid != 64 {
		t.Errorf("decoding table maps %d symbols, want 64", valid)
	}
}

func TestZigzag(t *testing.T) {
	testCases := []struct {
		in   int64
		want uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{math.MaxInt64, math.MaxUint64 - 1},
		{math.MinInt64, math.MaxUint64},
	}

	for _, tc := range testCases {
		if got := zigzag(tc.in); got != tc.want {
			t.Errorf("zigzag(%d) = %d, want %d", tc.in, got, tc.want)
		}
		if got := unzigzag(tc.want); got != tc.in {
			t.Errorf("unzigzag(%d) = %d, want %d", tc.want, got, tc.in)
		}
	}
}

func TestAppendUnsigned(t *testing.T) {
	testCases := []struct {
		in   uint64
		want string
	}{
		{0, "A"},
		{1, "B"},
		{31, "f"},
		{32, "gB"},
		{5010228 << 1, "oz5xJ"},
		{math.MaxUint64, "____________P"},
	}

	for _, tc := range testCases {
		if got := string(appendUnsigned(nil, tc.in)); got != tc.want {
			t.Errorf("appendUnsigned(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCursor_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 15, -16, 1 << 20, -(1 << 20), 5010228, -254, math.MaxInt64, math.MinInt64}

	var buf []byte
	for _, v := range values {
		buf = appendSigned(buf, v)
	}

	c := cursor{s: string(buf)}
	for i, want := range values {
		got, err := c.readSigned()
		if err != nil {
			t.Fatalf("value %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
	if !c.done() {
		t.Errorf("cursor not exhausted, %d bytes left", len(c.s)-c.pos)
	}
}

func TestCursor_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		wantKind   error
		wantOffset int
	}{
		{"invalid symbol", "g#", ErrInvalidCharacter, 1},
		{"non ascii", "\xff", ErrInvalidCharacter, 0},
		{"standard base64 plus", "+", ErrInvalidCharacter, 0},
		{"unterminated", "gg", ErrUnterminatedValue, 0},
		{"overflow in last group", strings.Repeat("_", 12) + "f", ErrOverflow, 0},
		{"too many groups", strings.Repeat("_", 13) + "A", ErrOverflow, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := cursor{s: tc.input}
			_, err := c.readUnsigned()
			if !errors.Is(err, tc.wantKind) {
				t.Fatalf("got %v, want %v", err, tc.wantKind)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}
			if e.Offset != tc.wantOffset {
				t.Errorf("offset = %d, want %d", e.Offset, tc.wantOffset)
			}
		})
	}
}

func TestCursor_MaxUnsignedIsNotOverflow(t *testing.T) {
	c := cursor{s: strings.Repeat("_", 12) + "P"}
	got, err := c.readUnsigned()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != math.MaxUint64 {
		t.Errorf("got %d, want %d", got, uint64(math.MaxUint64))
	}
}
