package models

import "strings"

// Статусы хранятся и передаются в едином каноническом написании
// (UPPER_SNAKE). Всё, что приходит извне, нормализуется на границе API.

// JobStatus - статус джоба курьера.
type JobStatus string

const (
	JobStatusAvailable      JobStatus = "AVAILABLE"
	JobStatusAssigned       JobStatus = "ASSIGNED"
	JobStatusPickedUp       JobStatus = "PICKED_UP"
	JobStatusInTransit      JobStatus = "IN_TRANSIT"
	JobStatusOutForDelivery JobStatus = "OUT_FOR_DELIVERY"
	JobStatusDelivered      JobStatus = "DELIVERED"
	JobStatusCancelled      JobStatus = "CANCELLED"
	JobStatusFailed         JobStatus = "FAILED"
	JobStatusReturned       JobStatus = "RETURNED"
)

var jobStatuses = map[JobStatus]bool{
	JobStatusAvailable:      true,
	JobStatusAssigned:       true,
	JobStatusPickedUp:       true,
	JobStatusInTransit:      true,
	JobStatusOutForDelivery: true,
	JobStatusDelivered:      true,
	JobStatusCancelled:      true,
	JobStatusFailed:         true,
	JobStatusReturned:       true,
}

// NormalizeJobStatus приводит строку к каноническому статусу джоба.
// Возвращает false, если статус не входит в закрытый набор.
func NormalizeJobStatus(s string) (JobStatus, bool) {
	st := JobStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, jobStatuses[st]
}

// TerminalJobStatuses - статусы, исключающие джоб из "активного" набора
// курьера. Запись при этом никогда не удаляется.
var TerminalJobStatuses = []JobStatus{
	JobStatusDelivered,
	JobStatusCancelled,
	JobStatusFailed,
	JobStatusReturned,
}

// Terminal сообщает, является ли статус терминальным.
func (s JobStatus) Terminal() bool {
	for _, t := range TerminalJobStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// OrderStatus - статус заказа. Отстаёт от статуса джоба и обновляется
// только каскадным координатором.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusAssigned  OrderStatus = "ASSIGNED"
	OrderStatusPickedUp  OrderStatus = "PICKED_UP"
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// LotStatus - статус лота (партии еды от донора).
type LotStatus string

const (
	LotStatusPending      LotStatus = "PENDING"
	LotStatusActive       LotStatus = "ACTIVE"
	LotStatusExpiringSoon LotStatus = "EXPIRING_SOON"
	LotStatusDelivered    LotStatus = "DELIVERED"
	LotStatusInactive     LotStatus = "INACTIVE"
)

var lotStatuses = map[LotStatus]bool{
	LotStatusPending:      true,
	LotStatusActive:       true,
	LotStatusExpiringSoon: true,
	LotStatusDelivered:    true,
	LotStatusInactive:     true,
}

// NormalizeLotStatus приводит строку к каноническому статусу лота.
func NormalizeLotStatus(s string) (LotStatus, bool) {
	st := LotStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, lotStatuses[st]
}

// PodRole - роль OTP-кода: pickup подтверждает донор, delivery - получатель.
type PodRole string

const (
	PodRolePickup   PodRole = "pickup"
	PodRoleDelivery PodRole = "delivery"
)

// NormalizePodRole принимает как внутренние имена ролей (pickup/delivery),
// так и имена сторон из URL верификации (donor/receiver).
func NormalizePodRole(s string) (PodRole, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pickup", "donor":
		return PodRolePickup, true
	case "delivery", "receiver":
		return PodRoleDelivery, true
	}
	return "", false
}
