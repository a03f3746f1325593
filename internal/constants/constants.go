package constants

import "github.com/andresl123/food-rescue-live-sub000/internal/models"

// User Roles
// Роли пользователей
const (
	ROLE_DONOR    = "donor"
	ROLE_RECEIVER = "receiver"
	ROLE_COURIER  = "courier"
	ROLE_OPERATOR = "operator"
	ROLE_ADMIN    = "admin"
)

// OTP
const (
	// Длина кода подтверждения: 6 цифр, как в маскированном поле ввода.
	OTP_CODE_LENGTH = 6
	// Размер QR-кода в пикселях для экранов донора/получателя.
	OTP_QR_SIZE = 256
)

// Pagination
// Пагинация
const (
	// JobsPerPage - размер страницы пула доступных джобов.
	JobsPerPage = 20
)

// General API Messages
// Общие сообщения API
const (
	AccessDeniedMessage    = "Forbidden: insufficient permissions"
	OnlyOneActiveJobError  = "Courier already has an active job"
	JobNotAvailableError   = "Job is not available for assignment"
	DeliveryVerifiedNotice = "Delivery OTP verified successfully"
	PickupVerifiedNotice   = "Pickup OTP verified successfully"
)

// JobStatusDisplayMap - отображаемые названия статусов джоба (Excel-отчёты).
var JobStatusDisplayMap = map[models.JobStatus]string{
	models.JobStatusAvailable:      "В пуле",
	models.JobStatusAssigned:       "Назначен",
	models.JobStatusPickedUp:       "Забран",
	models.JobStatusInTransit:      "В пути",
	models.JobStatusOutForDelivery: "Доставляется",
	models.JobStatusDelivered:      "Доставлен",
	models.JobStatusCancelled:      "Отменён",
	models.JobStatusFailed:         "Сорван",
	models.JobStatusReturned:       "Возвращён",
}

// OrderStatusDisplayMap - отображаемые названия статусов заказа.
var OrderStatusDisplayMap = map[models.OrderStatus]string{
	models.OrderStatusCreated:   "Создан",
	models.OrderStatusAssigned:  "Назначен",
	models.OrderStatusPickedUp:  "Забран",
	models.OrderStatusInTransit: "В пути",
	models.OrderStatusDelivered: "Доставлен",
}

// LotStatusDisplayMap - отображаемые названия статусов лота.
var LotStatusDisplayMap = map[models.LotStatus]string{
	models.LotStatusPending:      "Ожидает",
	models.LotStatusActive:       "Активен",
	models.LotStatusExpiringSoon: "Скоро истекает",
	models.LotStatusDelivered:    "Доставлен",
	models.LotStatusInactive:     "Неактивен",
}
