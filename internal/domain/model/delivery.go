package model

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lng float64
}

// DeliveryQuote is a computed delivery fee.
type DeliveryQuote struct {
	Fee         int64
	Zone        string
	DistanceKM  *float64
	Approximate bool
}

// DistanceTier maps distances up to MaxDistanceKM to Fee.
type DistanceTier struct {
	MaxDistanceKM float64
	Fee           int64
}
