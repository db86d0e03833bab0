package planner

import "github.com/rs/zerolog"

const (
	DefaultWeightEqualProducts = 10
	DefaultWeightPescatarian   = 5
	DefaultWeightVegetarian    = 1
	DefaultCurrencyPlaces      = 2
)

// Config holds the scoring weights and policy switches of the distributor
type Config struct {
	// WeightEqualProducts rewards each product a recipe shares with another candidate
	WeightEqualProducts int
	// WeightPescatarian is added while the pescatarian target is not met
	WeightPescatarian int
	// WeightVegetarian is added while the vegetarian target is not met
	WeightVegetarian int
	// RelaxComposition allows exceeding or dropping below composition targets
	// when no other candidate is left, instead of giving up
	RelaxComposition bool
	// CurrencyPlaces is the number of decimal places of the currency's minor unit
	CurrencyPlaces int32

	Logger zerolog.Logger
}

// DefaultConfig returns the default planner configuration
func DefaultConfig() Config {
	return Config{
		WeightEqualProducts: DefaultWeightEqualProducts,
		WeightPescatarian:   DefaultWeightPescatarian,
		WeightVegetarian:    DefaultWeightVegetarian,
		RelaxComposition:    true,
		CurrencyPlaces:      DefaultCurrencyPlaces,
		Logger:              zerolog.Nop(),
	}
}
