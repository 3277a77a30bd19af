package fundamental

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the type of a fundamental value.
type Kind uint8

const (
	KindDecimal  Kind = iota + 1 // dimensionless number (ratios, shares, EPS)
	KindPercent                  // fraction, 0.15 == 15%
	KindCurrency                 // monetary amount in the security's reporting currency
	KindDate                     // calendar date
	KindEnum                     // one of a small closed set of labels
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindPercent:
		return "percent"
	case KindCurrency:
		return "currency"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// KindFromString parses the lowercase kind name used in storage and
// over the wire
func KindFromString(s string) (Kind, error) {
	switch s {
	case "decimal":
		return KindDecimal, nil
	case "percent":
		return KindPercent, nil
	case "currency":
		return KindCurrency, nil
	case "date":
		return KindDate, nil
	case "enum":
		return KindEnum, nil
	default:
		return 0, fmt.Errorf("unknown value kind %q", s)
	}
}

// Value is a tagged variant holding one reported fact. A Value never
// encodes absence: "no value" is expressed by the ok bool alongside it.
// Zero is a legitimate reported number and must round-trip as such.
type Value struct {
	kind Kind
	num  float64
	text string
	date time.Time
}

// Decimal builds a dimensionless numeric value
func Decimal(v float64) Value {
	return Value{kind: KindDecimal, num: v}
}

// Percent builds a percentage value; v is the fraction (0.15 == 15%)
func Percent(v float64) Value {
	return Value{kind: KindPercent, num: v}
}

// Currency builds a monetary value in the reporting currency
func Currency(v float64) Value {
	return Value{kind: KindCurrency, num: v}
}

// Date builds a calendar date value
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

// Enum builds a label value
func Enum(s string) Value {
	return Value{kind: KindEnum, text: s}
}

// Kind returns the value's kind
func (v Value) Kind() Kind {
	return v.kind
}

// Decimal returns the numeric value, failing unless the kind is decimal
func (v Value) Decimal() (float64, error) {
	if v.kind != KindDecimal {
		return 0, fmt.Errorf("%w: have %s, want decimal", ErrTypeMismatch, v.kind)
	}
	return v.num, nil
}

// Percent returns the fraction, failing unless the kind is percent
func (v Value) Percent() (float64, error) {
	if v.kind != KindPercent {
		return 0, fmt.Errorf("%w: have %s, want percent", ErrTypeMismatch, v.kind)
	}
	return v.num, nil
}

// Currency returns the monetary amount, failing unless the kind is currency
func (v Value) Currency() (float64, error) {
	if v.kind != KindCurrency {
		return 0, fmt.Errorf("%w: have %s, want currency", ErrTypeMismatch, v.kind)
	}
	return v.num, nil
}

// Date returns the date, failing unless the kind is date
func (v Value) Date() (time.Time, error) {
	if v.kind != KindDate {
		return time.Time{}, fmt.Errorf("%w: have %s, want date", ErrTypeMismatch, v.kind)
	}
	return v.date, nil
}

// Enum returns the label, failing unless the kind is enum
func (v Value) Enum() (string, error) {
	if v.kind != KindEnum {
		return "", fmt.Errorf("%w: have %s, want enum", ErrTypeMismatch, v.kind)
	}
	return v.text, nil
}

// Float returns the numeric payload for any numeric kind
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindDecimal, KindPercent, KindCurrency:
		return v.num, nil
	default:
		return 0, fmt.Errorf("%w: have %s, want numeric", ErrTypeMismatch, v.kind)
	}
}

// Equal reports whether two values carry the same kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindDate:
		return v.date.Equal(o.date)
	case KindEnum:
		return v.text == o.text
	default:
		return v.num == o.num
	}
}

// String renders the value for logs and CLI output
func (v Value) String() string {
	switch v.kind {
	case KindDecimal, KindCurrency:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindPercent:
		return strconv.FormatFloat(v.num*100, 'f', -1, 64) + "%"
	case KindDate:
		return v.date.Format("2006-01-02")
	case KindEnum:
		return v.text
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}
func (v Value) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  string      `json:"kind"`
		Value interface{} `json:"value"`
	}{Kind: v.kind.String()}

	switch v.kind {
	case KindDate:
		out.Value = v.date.Format("2006-01-02")
	case KindEnum:
		out.Value = v.text
	default:
		out.Value = v.num
	}

	return json.Marshal(out)
}
