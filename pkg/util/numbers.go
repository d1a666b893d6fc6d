package util

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Number decodes a JSON value that upstream APIs send either as a number or
// as a numeric string. Empty strings and null decode to zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if s == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "number " + s, Type: reflect.TypeOf(float64(0))}
	}
	*n = Number(v)
	return nil
}

func (n Number) Float64() float64 { return float64(n) }

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
