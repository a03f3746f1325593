// Пакет pod реализует протокол подтверждения передачи (proof of delivery):
// на джоб выпускается пара одноразовых кодов, pickup-код проверяет донор,
// delivery-код - получатель.
package pod

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"

	"github.com/google/uuid"

	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// Store - хранилище OTP-кодов.
type Store interface {
	CreatePod(p *models.Pod) error
	GetPod(jobID string, role models.PodRole) (*models.Pod, error)
	MarkPodUsed(podID string) error
	DeletePods(jobID string) error
}

// Service выпускает и проверяет OTP-пары.
type Service struct {
	store Store
}

// NewService создает новый экземпляр Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GenerateCode возвращает криптографически случайный шестизначный код.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < constants.OTP_CODE_LENGTH; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("ошибка генерации случайного кода: %w", err)
	}
	return fmt.Sprintf("%0*d", constants.OTP_CODE_LENGTH, n), nil
}

// IssuePair создаёт оба кода джоба. Вызывается при назначении курьера;
// повторный вызов перевыпускает коды (старые перестают действовать).
func (s *Service) IssuePair(jobID string) (*models.PodPair, error) {
	pair := &models.PodPair{}
	for _, role := range []models.PodRole{models.PodRolePickup, models.PodRoleDelivery} {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		p := &models.Pod{
			ID:    uuid.New().String(),
			JobID: jobID,
			Role:  role,
			Code:  code,
		}
		if err := s.store.CreatePod(p); err != nil {
			return nil, fmt.Errorf("ошибка сохранения %s-кода джоба %s: %w", role, jobID, err)
		}
		if role == models.PodRolePickup {
			pair.Pickup = p
		} else {
			pair.Delivery = p
		}
	}
	log.Printf("Выпущена OTP-пара для джоба %s.", jobID)
	return pair, nil
}

// RevokePair удаляет оба кода джоба (отмена/возврат в пул).
func (s *Service) RevokePair(jobID string) error {
	return s.store.DeletePods(jobID)
}

// Verify сравнивает предъявленный код с сохранённым для джоба и роли.
// Статус джоба не меняется; продвижение - отдельный шаг за вызывающим.
// Любое несовпадение, отсутствующий или уже использованный код дают
// false без ошибки: для оператора это повод ввести код заново.
func (s *Service) Verify(jobID string, role models.PodRole, code string) (bool, error) {
	p, err := s.store.GetPod(jobID, role)
	if err != nil {
		return false, err
	}
	if p == nil || p.UsedAt != nil || code == "" || p.Code != code {
		return false, nil
	}
	if err := s.store.MarkPodUsed(p.ID); err != nil {
		// Код совпал: проверку засчитываем, невыставленную отметку
		// только логируем, чтобы не блокировать передачу.
		log.Printf("Verify: не удалось пометить код использованным (джоб %s, роль %s): %v", jobID, role, err)
	}
	return true, nil
}
