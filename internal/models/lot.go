package models

import "time"

// Lot - партия еды, переданная донором.
type Lot struct {
	ID          string    `json:"lotId"`
	DonorID     string    `json:"donorId"`
	Description string    `json:"description"`
	Status      LotStatus `json:"status"`
	Items       []string  `json:"items"`
	AddressID   string    `json:"addressId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
