package scf

import (
	"errors"
	"strconv"
)

// InferType classifies a column by its raw cells. Empty cells are
// compatible with every type, so a column without values is TypeInt32.
func InferType(cells []string) Type {
	isInt, isFloat := true, true
	for _, s := range cells {
		if s == "" {
			continue
		}
		if _, ok := parseInt32(s); !ok {
			isInt = false
			if _, ok := parseFloat64(s); !ok {
				isFloat = false
			}
		}
		if !isInt && !isFloat {
			return TypeString
		}
	}

	if isInt {
		return TypeInt32
	}
	if isFloat {
		return TypeFloat64
	}
	return TypeString
}

// parseInt32 accepts base-10 integers within the int32 range.
func parseInt32(s string) (int32, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// parseFloat64 accepts anything strconv does, overflowing magnitudes
// become infinities.
func parseFloat64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
