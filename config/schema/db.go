package schema

// FeeConfig keeps the fixed call values attached to the two flows. Values
// are ETH decimal strings; empty means "use the built-in default".
type FeeConfig struct {
	ID          uint   `gorm:"primarykey" json:"-"`
	GreetingFee string `json:"greetingFee"`
	MintFee     string `json:"mintFee"`
}

type IpRateWhitelist struct {
	OriginOrIP  string // e.g "188.0.2.2"
	Available   bool   `gorm:"index:idx3"` // true means effective
	Description string
}

// Param keeps tunables read periodically at runtime. Zero values fall back
// to the built-in defaults.
type Param struct {
	ID                 uint `gorm:"primarykey" json:"-"`
	SweepConcurrentNum int  // reconciliation sweep worker pool size
}
