// Package pricing computes the final price of one configured product. The
// engine is pure: no clock, no randomness, no side effects.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Mode controls how unmatched option names are treated.
type Mode int

const (
	// Lenient silently ignores option names absent from the product's lists.
	// This keeps old clients working against newer catalogs, at the cost of
	// typos producing no surcharge.
	Lenient Mode = iota

	// Strict rejects any option name absent from the product's lists.
	Strict
)

// ParseMode maps a config string to a Mode. Unrecognized values are lenient.
func ParseMode(s string) Mode {
	if s == "strict" {
		return Strict
	}
	return Lenient
}

// Selection names the options chosen for one line item, by exact name within
// each of the product's option sets.
type Selection struct {
	Color       string   `json:"color,omitempty"`
	Motor       string   `json:"motor,omitempty"`
	Remote      string   `json:"remote,omitempty"`
	Control     string   `json:"control,omitempty"`
	Accessories []string `json:"accessories,omitempty"`
}

var (
	sqInPerSqFt = decimal.NewFromInt(144)
	zero        = decimal.Zero
)

// ComputePrice returns basePrice + area·sizeRatio + option deltas, rounded
// half-up to cents. Width and height must already be in the unit of the
// product's bounds; area is normalized to square feet (÷144) regardless, so
// sizeRatio stays comparable across products.
func ComputePrice(p *catalog.Product, width, height float64, sel Selection, mode Mode) (float64, error) {
	// Capability flags are structural: selecting motor hardware on a product
	// that does not support it is invalid in both modes.
	if !p.ShowMotor && (sel.Motor != "" || sel.Remote != "" || sel.Control != "") {
		return 0, apperr.New(apperr.KindValidation, "product %s does not support motor options", p.ID)
	}

	total := decimal.NewFromFloat(p.BasePrice)

	area := decimal.NewFromFloat(width).
		Mul(decimal.NewFromFloat(height)).
		Mul(decimal.NewFromFloat(p.SizeRatio)).
		Div(sqInPerSqFt)
	total = total.Add(area)

	for _, pick := range []struct {
		name string
		set  []catalog.Option
	}{
		{sel.Motor, p.MotorOptions},
		{sel.Remote, p.RemoteOptions},
		{sel.Control, p.ControlOptions},
	} {
		delta, err := optionDelta(p, pick.name, pick.set, mode)
		if err != nil {
			return 0, err
		}
		total = total.Add(delta)
	}
	for _, name := range sel.Accessories {
		delta, err := optionDelta(p, name, p.Accessories, mode)
		if err != nil {
			return 0, err
		}
		total = total.Add(delta)
	}

	f, _ := total.Round(2).Float64()
	return f, nil
}

func optionDelta(p *catalog.Product, name string, set []catalog.Option, mode Mode) (decimal.Decimal, error) {
	if name == "" {
		return zero, nil
	}
	for _, opt := range set {
		if opt.Name == name {
			return decimal.NewFromFloat(opt.PriceDelta), nil
		}
	}
	if mode == Strict {
		return zero, apperr.New(apperr.KindValidation, "product %s has no option named %q", p.ID, name)
	}
	return zero, nil
}
