package dto

import "time"

// StockResponse describes one stock period.
type StockResponse struct {
	PeriodStart time.Time `json:"period_start"`
	Total       int       `json:"total"`
	Sold        int       `json:"sold"`
	Available   int       `json:"available"`
}

// CatalogResponse lists current availability and unit prices.
type CatalogResponse struct {
	Stock  StockResponse    `json:"stock"`
	Prices map[string]int64 `json:"prices"`
}

// StockResetRequest sets the allotment of a period. Empty period means the current one.
type StockResetRequest struct {
	PeriodStart *time.Time `json:"period_start"`
	Total       int        `json:"total"`
}

// StockAdjustRequest moves bottles in or out of a period outside the order flow.
type StockAdjustRequest struct {
	PeriodStart *time.Time `json:"period_start"`
	Quantity    int        `json:"quantity"`
}

// DeliveryQuoteRequest asks for a fee by zone or address.
type DeliveryQuoteRequest struct {
	Zone    string `json:"zone"`
	Address string `json:"address"`
}

// DeliveryQuoteResponse is a computed delivery fee.
type DeliveryQuoteResponse struct {
	Fee         int64    `json:"fee"`
	Zone        string   `json:"zone,omitempty"`
	DistanceKM  *float64 `json:"distance_km,omitempty"`
	Approximate bool     `json:"approximate"`
}
