package csv

import (
	"strconv"

	"celect/value"
)

// appendToken parses tok according to col's inferred type and appends
// it, setting validity 0 for an empty token or one that fails to parse
// (the latter permitted because Phase A's inference is sampled, not
// exhaustive, per spec's Phase C contract).
func appendToken(col *value.Column, tok []byte) {
	if len(tok) == 0 {
		col.AppendNull()
		return
	}

	switch col.Type {
	case value.Int64:
		v, err := strconv.ParseInt(string(tok), 10, 64)
		if err != nil {
			col.AppendNull()
			return
		}
		col.AppendInt64(v)
	case value.Float64:
		v, err := strconv.ParseFloat(string(tok), 64)
		if err != nil {
			col.AppendNull()
			return
		}
		col.AppendFloat64(v)
	case value.Bool:
		if isBoolToken(tok) {
			col.AppendBool(tok[0] == 't' || tok[0] == 'T')
		} else {
			col.AppendNull()
		}
	default: // Utf8
		col.AppendStr(tok)
	}
}
