package pod

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// QRImage возвращает PNG с QR-кодом OTP для экрана донора/получателя.
// Сканирование - альтернатива ручному вводу, контракт проверки тот же.
func (s *Service) QRImage(jobID string, role models.PodRole) ([]byte, error) {
	p, err := s.store.GetPod(jobID, role)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("код для джоба %s (роль %s) не найден", jobID, role)
	}
	qrBytes, err := qrcode.Encode(p.Code, qrcode.Medium, constants.OTP_QR_SIZE)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации QR-кода: %w", err)
	}
	return qrBytes, nil
}
