package models

import "time"

// Pod - OTP-код подтверждения передачи (proof of delivery), привязанный
// к одному джобу и одной роли. Код помечается использованным при первой
// успешной проверке и после этого больше не проходит верификацию.
type Pod struct {
	ID        string     `json:"podId"`
	JobID     string     `json:"jobId"`
	Role      PodRole    `json:"role"`
	Code      string     `json:"code"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PodPair - пара кодов, создаваемая при назначении курьера на джоб.
type PodPair struct {
	Pickup   *Pod `json:"pickup"`
	Delivery *Pod `json:"delivery"`
}
