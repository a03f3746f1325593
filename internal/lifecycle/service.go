package lifecycle

import (
	"log"

	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// JobStore - операции над джобами, нужные сервису.
type JobStore interface {
	GetJob(jobID string) (*models.Job, error)
	CountActiveJobs(courierID string) (int, error)
	AssignCourier(jobID, courierID string) (*models.Job, error)
	UnassignCourier(jobID string) (*models.Job, error)
	MarkPickedUp(jobID string) (*models.Job, error)
	MarkDelivered(jobID string) (*models.Job, error)
	MarkCancelled(jobID string) (*models.Job, error)
	AvailableJobs() ([]models.Job, error)
	JobsByCourier(courierID string) ([]models.Job, error)
}

// OrderMirror отражает статус джоба на связанном заказе. Обновление
// заказа здесь всегда best-effort: джоб - источник истины.
type OrderMirror interface {
	SetOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error)
}

// PodIssuer выпускает и отзывает OTP-пары джоба.
type PodIssuer interface {
	IssuePair(jobID string) (*models.PodPair, error)
	RevokePair(jobID string) error
}

// Service реализует операции курьера над жизненным циклом джоба.
type Service struct {
	jobs   JobStore
	orders OrderMirror
	pods   PodIssuer
}

// NewService создает новый экземпляр Service.
func NewService(jobs JobStore, orders OrderMirror, pods PodIssuer) *Service {
	return &Service{jobs: jobs, orders: orders, pods: pods}
}

// Pool возвращает первую страницу джобов, доступных к взятию.
// Хранилище отдаёт пул старые-первыми, страница сохраняет порядок.
func (s *Service) Pool() ([]models.Job, error) {
	jobs, err := s.jobs.AvailableJobs()
	if err != nil {
		return nil, err
	}
	if len(jobs) > constants.JobsPerPage {
		jobs = jobs[:constants.JobsPerPage]
	}
	return jobs, nil
}

// CourierJobs возвращает джобы курьера (текущие и завершённые).
func (s *Service) CourierJobs(courierID string) ([]models.Job, error) {
	return s.jobs.JobsByCourier(courierID)
}

// Get возвращает джоб по id.
func (s *Service) Get(jobID string) (*models.Job, error) {
	j, err := s.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	return j, nil
}

// Assign закрепляет джоб из пула за курьером. Курьер не может держать
// больше одного активного джоба; второе взятие отклоняется целиком,
// без частичных изменений. После назначения выпускается OTP-пара и
// заказ переводится в ASSIGNED.
func (s *Service) Assign(jobID, courierID string) (*models.Job, error) {
	j, err := s.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	if j.Status != models.JobStatusAvailable {
		return nil, ErrJobNotAvailable
	}
	active, err := s.jobs.CountActiveJobs(courierID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrCourierBusy
	}
	j, err = s.jobs.AssignCourier(jobID, courierID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		// Другой курьер успел взять джоб между проверкой и UPDATE.
		return nil, ErrJobNotAvailable
	}
	if _, err := s.pods.IssuePair(jobID); err != nil {
		// Джоб уже назначен, коды можно перевыпустить позже.
		log.Printf("Assign: не удалось выпустить OTP-пару для джоба %s: %v", jobID, err)
	}
	s.mirrorOrder(j.OrderID, models.OrderStatusAssigned)
	return j, nil
}

// Unassign возвращает джоб курьера в пул. Джоб без курьера возвращать
// некуда, после забора груза отказ тоже невозможен.
func (s *Service) Unassign(jobID, courierID string) (*models.Job, error) {
	j, err := s.ownedJob(jobID, courierID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(j.Status, models.JobStatusAvailable) {
		return nil, ErrIllegalTransition
	}
	j, err = s.jobs.UnassignCourier(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrIllegalTransition
	}
	if err := s.pods.RevokePair(jobID); err != nil {
		log.Printf("Unassign: не удалось отозвать OTP-пару джоба %s: %v", jobID, err)
	}
	s.mirrorOrder(j.OrderID, models.OrderStatusCreated)
	return j, nil
}

// Cancel отменяет нетерминальный джоб. Пустой courierID означает
// вызов оператором, проверка владельца пропускается.
func (s *Service) Cancel(jobID, courierID string) (*models.Job, error) {
	j, err := s.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	if courierID != "" && (j.CourierID == nil || *j.CourierID != courierID) {
		return nil, ErrNotJobOwner
	}
	if !CanTransition(j.Status, models.JobStatusCancelled) {
		return nil, ErrIllegalTransition
	}
	j, err = s.jobs.MarkCancelled(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrIllegalTransition
	}
	if err := s.pods.RevokePair(jobID); err != nil {
		log.Printf("Cancel: не удалось отозвать OTP-пару джоба %s: %v", jobID, err)
	}
	s.mirrorOrder(j.OrderID, models.OrderStatusCreated)
	return j, nil
}

// AdvancePickup подтверждает забор груза: ASSIGNED -> PICKED_UP.
func (s *Service) AdvancePickup(jobID, courierID string) (*models.Job, error) {
	j, err := s.ownedJob(jobID, courierID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(j.Status, models.JobStatusPickedUp) {
		return nil, ErrIllegalTransition
	}
	j, err = s.jobs.MarkPickedUp(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrIllegalTransition
	}
	s.mirrorOrder(j.OrderID, models.OrderStatusPickedUp)
	return j, nil
}

// AdvanceDelivery завершает джоб: любой нетерминальный назначенный
// статус -> DELIVERED. Повторный вызов по уже доставленному джобу
// отклоняется.
func (s *Service) AdvanceDelivery(jobID, courierID string) (*models.Job, error) {
	j, err := s.ownedJob(jobID, courierID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(j.Status, models.JobStatusDelivered) {
		return nil, ErrIllegalTransition
	}
	j, err = s.jobs.MarkDelivered(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrIllegalTransition
	}
	return j, nil
}

// ownedJob возвращает джоб, если он существует и принадлежит курьеру.
// Пустой courierID пропускает проверку владельца (операторский вызов).
func (s *Service) ownedJob(jobID, courierID string) (*models.Job, error) {
	j, err := s.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	if j.CourierID == nil {
		return nil, ErrIllegalTransition
	}
	if courierID != "" && *j.CourierID != courierID {
		return nil, ErrNotJobOwner
	}
	return j, nil
}

func (s *Service) mirrorOrder(orderID string, status models.OrderStatus) {
	if _, err := s.orders.SetOrderStatus(orderID, status); err != nil {
		log.Printf("Не удалось обновить статус заказа %s на %s: %v", orderID, status, err)
	}
}
