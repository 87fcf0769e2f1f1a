package ops

import "bytes"

// StrGetter returns the byte slice for row i of a Utf8 column; supplied
// by the caller so this package stays independent of the value package's
// offsets+bytes encoding.
type StrGetter func(i uint16) []byte

func strCmp(get StrGetter, i uint16, cmp []byte) int {
	return bytes.Compare(get(i), cmp)
}

// StrEqual writes into out the indices from idx where column row i is
// byte-equal to cmp.
func StrEqual(get StrGetter, cmp []byte, idx []uint16, out []uint16) int {
	filled := 0
	for _, i := range idx {
		if strCmp(get, i, cmp) == 0 {
			out[filled] = i
			filled++
		}
	}
	return filled
}

// StrNotEqual is the complement of StrEqual.
func StrNotEqual(get StrGetter, cmp []byte, idx []uint16, out []uint16) int {
	filled := 0
	for _, i := range idx {
		if strCmp(get, i, cmp) != 0 {
			out[filled] = i
			filled++
		}
	}
	return filled
}

// StrLess writes into out the indices from idx where row i sorts before
// cmp, byte-wise.
func StrLess(get StrGetter, cmp []byte, idx []uint16, out []uint16) int {
	filled := 0
	for _, i := range idx {
		if strCmp(get, i, cmp) < 0 {
			out[filled] = i
			filled++
		}
	}
	return filled
}

// StrLessEqual writes into out the indices from idx where row i sorts at
// or before cmp, byte-wise.
func StrLessEqual(get StrGetter, cmp []byte, idx []uint16, out []uint16) int {
	filled := 0
	for _, i := range idx {
		if strCmp(get, i, cmp) <= 0 {
			out[filled] = i
			filled++
		}
	}
	return filled
}

// StrGreater writes into out the indices from idx where row i sorts
// after cmp, byte-wise.
func StrGreater(get StrGetter, cmp []byte, idx []uint16, out []uint16) int {
	filled := 0
	for _, i := range idx {
		if strCmp(get, i, cmp) > 0 {
			out[filled] = i
			filled++
		}
	}
	return filled
}

// StrGreaterEqual writes into out the indices from idx where row i sorts
// at or after cmp, byte-wise.
func StrGreaterEqual(get StrGetter, cmp []byte, idx []uint16, out []uint16) int {
	filled := 0
	for _, i := range idx {
		if strCmp(get, i, cmp) >= 0 {
			out[filled] = i
			filled++
		}
	}
	return filled
}
