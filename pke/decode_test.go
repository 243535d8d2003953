package pke

import (
	"bytes"
	"errors"
	"testing"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/gf2"
)

func mustRows(t *testing.T, rows [][]uint8) mceliece.BinaryMatrix {
	t.Helper()
	m, err := gf2.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	return m
}

func TestDecodeNearest(t *testing.T) {
	g := mustRows(t, fixedG)
	tests := []struct {
		name     string
		received []uint8
		want     []uint8
		dist     int
	}{
		{"exact codeword", []uint8{1, 0, 1, 1, 0, 1}, []uint8{1, 0, 1}, 0},
		{"zero word", []uint8{0, 0, 0, 0, 0, 0}, []uint8{0, 0, 0}, 0},
		{"single flip", []uint8{0, 0, 1, 1, 0, 1}, []uint8{1, 0, 1}, 1},
		{"all ones", []uint8{1, 1, 1, 1, 1, 1}, []uint8{1, 1, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dist, err := DecodeNearest(g, tt.received)
			if err != nil {
				t.Fatalf("DecodeNearest failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) || dist != tt.dist {
				t.Errorf("got %v at %d, want %v at %d", got, dist, tt.want, tt.dist)
			}
		})
	}
}

func TestDecodeNearest_BitOrder(t *testing.T) {
	g := gf2.Identity(3)
	got, _, err := DecodeNearest(g, []uint8{1, 0, 0})
	if err != nil {
		t.Fatalf("DecodeNearest failed: %v", err)
	}
	if !bytes.Equal(got, []uint8{1, 0, 0}) {
		t.Errorf("got %v, want [1 0 0]", got)
	}
}

func TestDecodeNearest_TieBreak(t *testing.T) {
	g := mustRows(t, [][]uint8{
		{1, 1, 0, 0},
		{0, 0, 1, 1},
	})
	// 1000 is at distance 1 from both 0000 (x=0) and 1100 (x=1).
	got, dist, err := DecodeNearest(g, []uint8{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("DecodeNearest failed: %v", err)
	}
	if !bytes.Equal(got, []uint8{0, 0}) || dist != 1 {
		t.Errorf("got %v at %d, want [0 0] at 1", got, dist)
	}
	// 0010 ties x=0 and x=2; the lower candidate wins.
	got, _, _ = DecodeNearest(g, []uint8{0, 0, 1, 0})
	if !bytes.Equal(got, []uint8{0, 0}) {
		t.Errorf("got %v, want [0 0]", got)
	}
	// 1110 ties x=1 and x=3.
	got, _, _ = DecodeNearest(g, []uint8{1, 1, 1, 0})
	if !bytes.Equal(got, []uint8{1, 0}) {
		t.Errorf("got %v, want [1 0]", got)
	}
}

func TestDecodeNearest_Errors(t *testing.T) {
	g := mustRows(t, fixedG)
	if _, _, err := DecodeNearest(g, []uint8{1, 0, 1}); !errors.Is(err, mceliece.ErrInvalidCiphertextLength) {
		t.Errorf("expected ErrInvalidCiphertextLength, got %v", err)
	}
	if _, _, err := DecodeNearest(g, []uint8{1, 0, 1, 3, 0, 1}); !errors.Is(err, mceliece.ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}

	big := gf2.Identity(63)
	if _, _, err := DecodeNearest(big, make([]uint8, 63)); !errors.Is(err, mceliece.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters for k = 63, got %v", err)
	}
	if _, err := MinimumDistance(big); !errors.Is(err, mceliece.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters for k = 63, got %v", err)
	}

	bad := mceliece.BinaryMatrix{Rows: 2, Cols: 3, Data: []uint8{1, 0}}
	if _, _, err := DecodeNearest(bad, make([]uint8, 3)); !errors.Is(err, mceliece.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestMinimumDistance(t *testing.T) {
	tests := []struct {
		name string
		rows [][]uint8
		want int
	}{
		{"fixed code", fixedG, 3},
		{"identity", [][]uint8{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 1},
		{"repetition", [][]uint8{{1, 1, 1, 1, 1}}, 5},
		{"parity", [][]uint8{{1, 0, 1}, {0, 1, 1}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := MinimumDistance(mustRows(t, tt.rows))
			if err != nil {
				t.Fatalf("MinimumDistance failed: %v", err)
			}
			if d != tt.want {
				t.Errorf("MinimumDistance = %d, want %d", d, tt.want)
			}
		})
	}
}

func TestCorrectionCapacity(t *testing.T) {
	c, err := CorrectionCapacity(mustRows(t, fixedG))
	if err != nil || c != 1 {
		t.Errorf("CorrectionCapacity = %d, %v; want 1", c, err)
	}
	c, _ = CorrectionCapacity(mustRows(t, [][]uint8{{1, 1, 1, 1, 1}}))
	if c != 2 {
		t.Errorf("repetition code capacity = %d, want 2", c)
	}
}
