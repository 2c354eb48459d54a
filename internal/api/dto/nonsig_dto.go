package dto

import "time"

// NonsigRequest payload for creating a customer account.
type NonsigRequest struct {
	Code       string  `json:"code"`
	TradeStyle string  `json:"trade_style"`
	Addr1      string  `json:"addr1"`
	Addr2      *string `json:"addr2"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	BrandKey   *string `json:"brand_key"`
	Type       string  `json:"type"`
}

// NonsigResponse is the wire shape for a customer account.
type NonsigResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	TradeStyle  string    `json:"trade_style"`
	Addr1       string    `json:"addr1"`
	Addr2       *string   `json:"addr2,omitempty"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	BrandKey    *string   `json:"brand_key,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsActiveTHQ bool      `json:"is_active_thq"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
