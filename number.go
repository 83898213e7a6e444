package namedtree

import (
	"math"
	"strconv"
)

// number is a leaf value normalised for arithmetic.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func toNumber(v any) (number, bool) {
	switch t := v.(type) {
	case int:
		return number{i: int64(t)}, true
	case int8:
		return number{i: int64(t)}, true
	case int16:
		return number{i: int64(t)}, true
	case int32:
		return number{i: int64(t)}, true
	case int64:
		return number{i: t}, true
	case uint:
		return fromUint(uint64(t)), true
	case uint8:
		return number{i: int64(t)}, true
	case uint16:
		return number{i: int64(t)}, true
	case uint32:
		return number{i: int64(t)}, true
	case uint64:
		return fromUint(t), true
	case float32:
		return number{f: float64(t), isFloat: true}, true
	case float64:
		return number{f: t, isFloat: true}, true
	default:
		return number{}, false
	}
}

// fromUint keeps u integral when it fits in an int64.
func fromUint(u uint64) number {
	if u > math.MaxInt64 {
		return number{f: float64(u), isFloat: true}
	}
	return number{i: int64(u)}
}

// addNumbers sums ns, staying integral while every input is an integer and
// no partial sum overflows int64.
func addNumbers(ns []number) number {
	var sum number
	for _, n := range ns {
		if !sum.isFloat && (n.isFloat || addOverflows(sum.i, n.i)) {
			sum = number{f: float64(sum.i), isFloat: true}
		}
		if sum.isFloat {
			sum.f += n.float()
		} else {
			sum.i += n.i
		}
	}
	return sum
}

func addOverflows(a, b int64) bool {
	s := a + b
	return (a >= 0) == (b >= 0) && (s >= 0) != (a >= 0)
}

func (n number) value() any {
	if n.isFloat {
		return n.f
	}
	return n.i
}

// FormatScalar renders a leaf value for reports: integers in decimal,
// floats in the shortest representation that round-trips.
func FormatScalar(v any) string {
	if n, ok := toNumber(v); ok {
		if n.isFloat {
			return strconv.FormatFloat(n.f, 'g', -1, 64)
		}
		return strconv.FormatInt(n.i, 10)
	}
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any:
		s := "["
		for i, e := range t {
			if i > 0 {
				s += " "
			}
			s += FormatScalar(e)
		}
		return s + "]"
	default:
		return safeSprint(v)
	}
}
