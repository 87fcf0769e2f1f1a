package ops

import "testing"

func TestEqualDense(t *testing.T) {
	input := []int64{1, 2, 3, 2, 5, 2, 7, 8, 2, 10}
	out := make([]uint16, len(input))

	n := Equal(input, int64(2), nil, out)
	if n != 4 {
		t.Fatalf("expected 4 matches, got %d", n)
	}
	want := []uint16{1, 3, 5, 8}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("index %d: expected %d got %d", i, w, out[i])
		}
	}
}

func TestEqualWithSelection(t *testing.T) {
	input := []int64{1, 2, 3, 2, 5}
	idx := []uint16{0, 1, 3, 4}
	out := make([]uint16, len(idx))

	n := Equal(input, int64(2), idx, out)
	if n != 2 || out[0] != 1 || out[1] != 3 {
		t.Fatalf("unexpected result: n=%d out=%v", n, out[:n])
	}
}

func TestGreaterAndLess(t *testing.T) {
	input := []float64{10, 20, 5, 30, 1}
	out := make([]uint16, len(input))

	n := Greater(input, 10.0, nil, out)
	if n != 2 || out[0] != 1 || out[1] != 3 {
		t.Fatalf("Greater: unexpected result n=%d out=%v", n, out[:n])
	}

	n = Less(input, 10.0, nil, out)
	if n != 2 || out[0] != 2 || out[1] != 4 {
		t.Fatalf("Less: unexpected result n=%d out=%v", n, out[:n])
	}
}

func TestBoolOrderingViaInt8(t *testing.T) {
	// false(0) < true(1), per the spec's Bool<Bool ordering rule.
	input := []int8{0, 1, 1, 0}
	out := make([]uint16, len(input))

	n := Greater(input, int8(0), nil, out)
	if n != 2 || out[0] != 1 || out[1] != 2 {
		t.Fatalf("unexpected result n=%d out=%v", n, out[:n])
	}
}

func TestStrEqual(t *testing.T) {
	data := [][]byte{[]byte("alice"), []byte("bob"), []byte("alice")}
	get := func(i uint16) []byte { return data[i] }
	out := make([]uint16, len(data))

	n := StrEqual(get, []byte("alice"), Range(len(data)), out)
	if n != 2 || out[0] != 0 || out[1] != 2 {
		t.Fatalf("unexpected result n=%d out=%v", n, out[:n])
	}
}
