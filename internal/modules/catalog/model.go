package catalog

// Color is a fabric color choice on a product. Colors are cosmetic; they never
// carry a price delta.
type Color struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Hex      string `json:"hex,omitempty"`
	ImageRef string `json:"image_ref,omitempty"`
}

// Option is a priced add-on within one of a product's option sets.
type Option struct {
	Name        string  `json:"name"`
	PriceDelta  float64 `json:"price_delta"`
	Description string  `json:"description,omitempty"`
}

// Product is a configurable window-treatment product. The id is a stable
// external key: a catalog sync must never regenerate it, because orders and
// inventory consumption reference it.
type Product struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"base_price"`

	// SizeRatio converts area in square feet into an incremental price.
	SizeRatio float64 `json:"size_ratio"`
	MinWidth  float64 `json:"min_width"`
	MaxWidth  float64 `json:"max_width"`
	MinHeight float64 `json:"min_height"`
	MaxHeight float64 `json:"max_height"`

	// Capability flags controlling which option sets are valid for this product.
	ShowMotor bool `json:"show_motor"`
	ShowColor bool `json:"show_color"`

	Colors         []Color  `json:"colors,omitempty"`
	MotorOptions   []Option `json:"motor_options,omitempty"`
	RemoteOptions  []Option `json:"remote_options,omitempty"`
	ControlOptions []Option `json:"control_options,omitempty"`
	Accessories    []Option `json:"accessories,omitempty"`

	// Stock fields are owned by the inventory ledger and denormalized here for
	// read convenience. A catalog sync carries them forward by id.
	CurrentStock int `json:"current_stock"`
	SafetyStock  int `json:"safety_stock"`
}

// Summary is the read projection the gateway serves for product listings.
type Summary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	StockQty    int     `json:"stockQty"`
	SafetyStock int     `json:"safetyStock"`
}
