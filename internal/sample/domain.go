// Package sample is a small HR domain compiled into the typeboot CLI so
// manifests have something to resolve against.
package sample

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/manifest"
	"github.com/zclconf/go-cty/cty"
)

// Employee is identified by its Login.
type Employee struct {
	Login    string `meta:",id"`
	Name     string
	Position string
	Salary   Money
	Hired    time.Time
	Address  *Address
	Skills   []string
	Password string `meta:"-"`
}

// Department is identified by an explicit id_property in the manifest.
type Department struct {
	Code     string
	Name     string
	Location Address
	Budget   Money
}

// Address has no identity of its own.
type Address struct {
	Street  string
	City    string
	Country Country
}

// Money is a fixed-point amount in minor units.
type Money struct {
	Cents    int64
	Currency string
}

func (m Money) String() string {
	sign, c := "", m.Cents
	if c < 0 {
		sign, c = "-", -c
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, c/100, c%100, m.Currency)
}

// ParseMoney parses the form produced by Money.String.
func ParseMoney(s string) (Money, error) {
	rest, negative := strings.CutPrefix(s, "-")
	var whole, frac int64
	var cur string
	if _, err := fmt.Sscanf(rest, "%d.%02d %s", &whole, &frac, &cur); err != nil {
		return Money{}, fmt.Errorf("invalid money %q: %w", s, err)
	}
	cents := whole*100 + frac
	if negative {
		cents = -cents
	}
	return Money{Cents: cents, Currency: cur}, nil
}

// Country is an ISO 3166 alpha-2 code.
type Country string

// MoneyCodec writes Money as its string form.
var MoneyCodec = converter.NewCodec(cty.String,
	func(m Money) (cty.Value, error) {
		return cty.StringVal(m.String()), nil
	},
	func(val cty.Value) (Money, error) {
		return ParseMoney(val.AsString())
	},
)

// UpperCodec is a native codec for any string kind, normalising to upper
// case. It is bound to a type explicitly.
var UpperCodec = converter.NativeCodec(cty.String,
	func(v any) (cty.Value, error) {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.String {
			return cty.NilVal, fmt.Errorf("upper codec cannot encode %T", v)
		}
		return cty.StringVal(strings.ToUpper(rv.String())), nil
	},
	func(val cty.Value) (any, error) {
		return Country(strings.ToUpper(val.AsString())), nil
	},
)

// Catalog returns the names a manifest may reference.
func Catalog() manifest.Catalog {
	return manifest.Catalog{
		Types: map[string]reflect.Type{
			"Employee":   reflect.TypeFor[Employee](),
			"Department": reflect.TypeFor[Department](),
			"Address":    reflect.TypeFor[Address](),
			"Money":      reflect.TypeFor[Money](),
			"Country":    reflect.TypeFor[Country](),
		},
		Codecs: map[string]converter.Codec{
			"money": MoneyCodec,
			"upper": UpperCodec,
		},
	}
}
