package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

func motorizedShade() *catalog.Product {
	return &catalog.Product{
		ID:        "RS-100",
		Title:     "Roller Shade",
		BasePrice: 88,
		SizeRatio: 0.15,
		MinWidth:  12, MaxWidth: 96,
		MinHeight: 12, MaxHeight: 120,
		ShowMotor: true,
		ShowColor: true,
		MotorOptions: []catalog.Option{
			{Name: "Standard Motor", PriceDelta: 120},
			{Name: "Quiet Motor", PriceDelta: 180},
		},
		RemoteOptions: []catalog.Option{
			{Name: "5-Channel Remote", PriceDelta: 35},
		},
		ControlOptions: []catalog.Option{
			{Name: "Wall Switch", PriceDelta: 25},
		},
		Accessories: []catalog.Option{
			{Name: "Valance", PriceDelta: 40},
			{Name: "Side Channels", PriceDelta: 55},
		},
	}
}

func TestComputePriceBaseFormula(t *testing.T) {
	p := motorizedShade()

	// 48x72 = 3456 sq-in = 24 sq-ft; 3456*0.15/144 = 3.60
	price, err := ComputePrice(p, 48, 72, Selection{}, Lenient)
	require.NoError(t, err)
	assert.Equal(t, 91.60, price)
}

func TestComputePriceAddsOptionDeltas(t *testing.T) {
	p := motorizedShade()

	sel := Selection{
		Motor:       "Quiet Motor",
		Remote:      "5-Channel Remote",
		Control:     "Wall Switch",
		Accessories: []string{"Valance", "Side Channels"},
	}
	price, err := ComputePrice(p, 48, 72, sel, Lenient)
	require.NoError(t, err)
	assert.InDelta(t, 426.60, price, 1e-9)
}

func TestComputePriceMonotonicInDimensions(t *testing.T) {
	p := motorizedShade()

	base, err := ComputePrice(p, 48, 72, Selection{}, Lenient)
	require.NoError(t, err)

	wider, err := ComputePrice(p, 60, 72, Selection{}, Lenient)
	require.NoError(t, err)
	taller, err := ComputePrice(p, 48, 90, Selection{}, Lenient)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, wider, base)
	assert.GreaterOrEqual(t, taller, base)
}

func TestComputePriceRoundsHalfUp(t *testing.T) {
	p := &catalog.Product{ID: "X", BasePrice: 0, SizeRatio: 1}

	// 12x18.06 = 216.72 sq-in; /144 = 1.505 → rounds to 1.51, not 1.50.
	price, err := ComputePrice(p, 12, 18.06, Selection{}, Lenient)
	require.NoError(t, err)
	assert.Equal(t, 1.51, price)
}

func TestComputePriceUnmatchedOptionLenient(t *testing.T) {
	p := motorizedShade()

	price, err := ComputePrice(p, 48, 72, Selection{Motor: "Turbo Motor"}, Lenient)
	require.NoError(t, err)
	assert.Equal(t, 91.60, price, "unmatched option should contribute zero in lenient mode")
}

func TestComputePriceUnmatchedOptionStrict(t *testing.T) {
	p := motorizedShade()

	_, err := ComputePrice(p, 48, 72, Selection{Motor: "Turbo Motor"}, Strict)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestComputePriceMotorOnMotorlessProduct(t *testing.T) {
	p := motorizedShade()
	p.ShowMotor = false

	_, err := ComputePrice(p, 48, 72, Selection{Motor: "Standard Motor"}, Lenient)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, Strict, ParseMode("strict"))
	assert.Equal(t, Lenient, ParseMode("lenient"))
	assert.Equal(t, Lenient, ParseMode(""))
}
