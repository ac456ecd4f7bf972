package model

import "time"

// StockPeriod is the bottle allotment for one inventory period.
type StockPeriod struct {
	PeriodStart time.Time
	Total       int
	Sold        int
	UpdatedAt   time.Time
}

// Available returns total minus sold, never negative.
func (p StockPeriod) Available() int {
	if p.Sold >= p.Total {
		return 0
	}
	return p.Total - p.Sold
}
