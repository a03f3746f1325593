package models

import "time"

// Order - логистическая запись, связывающая лот, получателя и (после
// назначения) джоб курьера.
type Order struct {
	ID                string      `json:"orderId"`
	LotID             string      `json:"lotId"`
	PickupAddressID   string      `json:"pickupAddressId"`
	DeliveryAddressID string      `json:"deliveryAddressId"`
	ReceiverID        string      `json:"receiverId"`
	Status            OrderStatus `json:"status"`
	// DeliveryOTP показывается получателю после назначения курьера;
	// наружу отдаётся только в деталях заказа для стороны-получателя.
	DeliveryOTP string    `json:"deliveryOtp,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderDetails - заказ, дополненный адресами и именем получателя для
// экранов отслеживания и деталей.
type OrderDetails struct {
	Order
	PickupAddress   *Address `json:"pickupAddress,omitempty"`
	DeliveryAddress *Address `json:"deliveryAddress,omitempty"`
	ReceiverName    string   `json:"receiverName,omitempty"`
}

// OrderExportRow - строка Excel-отчёта админа по заказам.
type OrderExportRow struct {
	OrderID        string
	LotDescription string
	LotStatus      LotStatus
	OrderStatus    OrderStatus
	JobStatus      JobStatus
	CourierName    string
	ReceiverName   string
	CreatedAt      time.Time
}
