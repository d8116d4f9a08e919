package vbsp

import (
	"bytes"
	"testing"
)

func TestVisRoundTrip(t *testing.T) {
	long := make([]byte, 600)
	long[599] = 0x80
	for _, in := range [][]byte{
		{},
		{0xff},
		{0},
		{0, 0, 0, 1, 0},
		{1, 2, 3},
		long,
		make([]byte, 255),
		make([]byte, 256),
	} {
		c := CompressVis(in)
		got, err := DecompressVis(c, len(in))
		if err != nil {
			t.Errorf("DecompressVis(%v): %v", c, err)
			continue
		}
		if !bytes.Equal(got, in) {
			t.Errorf("round trip of %v: got %v", in, got)
		}
	}
}

func TestCompressVis(t *testing.T) {
	for _, test := range []struct {
		in, want []byte
	}{
		{[]byte{0, 0, 0, 1, 0}, []byte{0, 3, 1, 0, 1}},
		{[]byte{5, 6}, []byte{5, 6}},
		{make([]byte, 256), []byte{0, 255, 0, 1}},
	} {
		if got := CompressVis(test.in); !bytes.Equal(got, test.want) {
			t.Errorf("CompressVis(%v): got %v, want %v", test.in, got, test.want)
		}
	}
}

func TestBuildVisibility(t *testing.T) {
	// Rows carry padding beyond ceil(10/8) = 2 bytes, which is dropped.
	rows := make([][]byte, 10)
	for c := range rows {
		rows[c] = []byte{byte(1 << uint(c%8)), byte(c / 8), 0xAA, 0xBB}
	}
	lump, err := BuildVisibility(rows)
	if err != nil {
		t.Fatalf("BuildVisibility: %v", err)
	}
	for c := range rows {
		got, err := ClusterVis(lump, c)
		if err != nil {
			t.Fatalf("ClusterVis(%d): %v", c, err)
		}
		if !bytes.Equal(got, rows[c][:2]) {
			t.Errorf("cluster %d: got %v, want %v", c, got, rows[c][:2])
		}
	}
	if _, err := BuildVisibility([][]byte{{1}, {}}); err == nil {
		t.Errorf("short row: got nil error")
	}
}
