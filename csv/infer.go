package csv

import (
	"bufio"
	"os"
	"strings"

	"celect/celecterr"
	"celect/value"
)

// classify returns the narrowest type a single token fits, per
// spec's token grammar: Int64 iff -?\d+, Float64 iff -?\d+(\.\d+)?,
// Bool iff case-insensitive true/false, empty iff Null, else Utf8.
func classify(tok []byte) value.Type {
	if len(tok) == 0 {
		return value.Null
	}
	if isBoolToken(tok) {
		return value.Bool
	}
	if isIntToken(tok) {
		return value.Int64
	}
	if isFloatToken(tok) {
		return value.Float64
	}
	return value.Utf8
}

func isIntToken(tok []byte) bool {
	i := 0
	if tok[i] == '-' {
		i++
	}
	if i >= len(tok) {
		return false
	}
	for ; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

func isFloatToken(tok []byte) bool {
	i := 0
	if tok[i] == '-' {
		i++
	}
	start := i
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == start {
		return false
	}
	if i == len(tok) {
		return true
	}
	if tok[i] != '.' {
		return false
	}
	i++
	fracStart := i
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	return i == len(tok) && i > fracStart
}

func isBoolToken(tok []byte) bool {
	s := string(tok)
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// widen returns the least common supertype of a running inference and
// a newly observed token type, per the widening lattice: Int64 ⊂
// Float64 ⊂ Utf8, Bool ⊂ Utf8, Null absorbs into anything.
func widen(current, observed value.Type) value.Type {
	if observed == value.Null {
		return current
	}
	if current == value.Null {
		return observed
	}
	if current == observed {
		return current
	}
	return value.Widen(current, observed)
}

// InferSchema implements Phase A: reads the header line, then samples
// up to sampleRows records to infer each column's type.
func InferSchema(path string, sampleRows int) (value.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return value.Schema{}, celecterr.IO(err, "opening %s", path)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	headerLine, err := r.ReadString('\n')
	if err != nil && len(headerLine) == 0 {
		return value.Schema{}, celecterr.IO(err, "reading header of %s", path)
	}
	headerTok := NewTokenizer([]byte(headerLine), 0, len(headerLine))
	names, ok := headerTok.Next()
	if !ok {
		return value.Schema{}, celecterr.Schema("%s has no header row", path)
	}

	colNames := make([]string, len(names))
	for i, n := range names {
		colNames[i] = string(n)
	}
	types := make([]value.Type, len(colNames))
	for i := range types {
		types[i] = value.Null
	}

	for row := 0; row < sampleRows; row++ {
		line, rerr := r.ReadString('\n')
		if len(line) == 0 {
			break
		}
		tok := NewTokenizer([]byte(line), 0, len(line))
		fields, ok := tok.Next()
		if !ok {
			if rerr != nil {
				break
			}
			continue
		}
		for i, f := range fields {
			if i >= len(types) {
				break
			}
			types[i] = widen(types[i], classify(f))
		}
		if rerr != nil {
			break
		}
	}

	fields := make([]value.Field, len(colNames))
	for i, name := range colNames {
		t := types[i]
		if t == value.Null {
			t = value.Utf8
		}
		fields[i] = value.Field{Name: name, Type: t}
	}

	return value.NewSchema(fields...)
}
