// Пакет lifecycle описывает жизненный цикл джоба и операции курьера
// над ним: взятие из пула, отказ, подтверждение забора и доставки.
package lifecycle

import (
	"errors"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrJobNotAvailable   = errors.New("job is not available")
	ErrCourierBusy       = errors.New("courier already has an active job")
	ErrNotJobOwner       = errors.New("job is assigned to another courier")
	ErrIllegalTransition = errors.New("illegal job status transition")
)

// transitions - допустимые переходы статуса джоба. Всё, чего здесь нет,
// отклоняется; терминальные статусы исходящих переходов не имеют.
var transitions = map[models.JobStatus][]models.JobStatus{
	models.JobStatusAvailable:      {models.JobStatusAssigned, models.JobStatusCancelled},
	models.JobStatusAssigned:       {models.JobStatusPickedUp, models.JobStatusDelivered, models.JobStatusAvailable, models.JobStatusCancelled, models.JobStatusFailed},
	models.JobStatusPickedUp:       {models.JobStatusInTransit, models.JobStatusDelivered, models.JobStatusFailed, models.JobStatusReturned},
	models.JobStatusInTransit:      {models.JobStatusOutForDelivery, models.JobStatusDelivered, models.JobStatusFailed, models.JobStatusReturned},
	models.JobStatusOutForDelivery: {models.JobStatusDelivered, models.JobStatusFailed, models.JobStatusReturned},
}

// CanTransition сообщает, допустим ли переход from -> to.
func CanTransition(from, to models.JobStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive - джоб занимает курьера: назначен и ещё не в терминальном статусе.
func IsActive(j *models.Job) bool {
	return j.CourierID != nil && j.Status != models.JobStatusAvailable && !j.Status.Terminal()
}
