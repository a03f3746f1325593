package models

import "time"

// Job - единица работы курьера, привязанная 1:1 к заказу.
// CourierID равен nil, пока джоб находится в пуле (AVAILABLE).
type Job struct {
	ID          string     `json:"jobId"`
	OrderID     string     `json:"orderId"`
	LotID       string     `json:"lotId"`
	CourierID   *string    `json:"courierId"`
	Status      JobStatus  `json:"status"`
	AssignedAt  *time.Time `json:"assignedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
