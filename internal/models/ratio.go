package models

import (
	"encoding/json"
	"strconv"
)

// Ratio is the result of a division that may be undefined because the
// denominator was zero. An undefined ratio is carried through every artifact
// as an explicit marker; it is never silently rendered as 0, Inf or NaN.
type Ratio struct {
	Value   float64
	Defined bool
}

func DefinedRatio(v float64) Ratio {
	return Ratio{Value: v, Defined: true}
}

func UndefinedRatio() Ratio {
	return Ratio{}
}

// Divide computes num/den, returning an undefined Ratio when den is zero.
func Divide(num, den float64) Ratio {
	if den == 0 {
		return UndefinedRatio()
	}
	return DefinedRatio(num / den)
}

// String renders the ratio for tabular artifacts. External renderers are
// expected to show "N/A" for undefined values, so that is what we emit.
func (r Ratio) String() string {
	if !r.Defined {
		return "N/A"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// Ptr maps the ratio to a nullable numeric, for SQL parameters and JSON.
func (r Ratio) Ptr() *float64 {
	if !r.Defined {
		return nil
	}
	v := r.Value
	return &v
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = UndefinedRatio()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = DefinedRatio(v)
	return nil
}
