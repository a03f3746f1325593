// Пакет cascade связывает подтверждение доставки с заказом и лотом.
// Три шага каскада независимы: джоб обязателен, заказ и лот - по мере
// возможности, с предупреждениями вместо отката.
package cascade

import (
	"fmt"
	"log"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// JobAdvancer продвигает статус джоба после успешной проверки OTP.
type JobAdvancer interface {
	AdvancePickup(jobID, courierID string) (*models.Job, error)
	AdvanceDelivery(jobID, courierID string) (*models.Job, error)
}

// OrderStore - доступ к заказам для каскада.
type OrderStore interface {
	GetOrder(orderID string) (*models.Order, error)
	MarkOrderDelivered(orderID string) (*models.Order, error)
	SetOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error)
}

// LotStore - доступ к лотам для каскада.
type LotStore interface {
	SetLotStatus(lotID string, status models.LotStatus) (*models.Lot, error)
}

// Result описывает, докуда дошёл каскад. Warnings - человекочитаемые
// сообщения о шагах, которые не удались, но не отменили доставку.
type Result struct {
	Job          *models.Job `json:"job"`
	JobUpdated   bool        `json:"jobUpdated"`
	OrderUpdated bool        `json:"orderUpdated"`
	LotUpdated   bool        `json:"lotUpdated"`
	Warnings     []string    `json:"warnings,omitempty"`
}

// Coordinator выполняет каскад Job -> Order -> Lot.
type Coordinator struct {
	jobs   JobAdvancer
	orders OrderStore
	lots   LotStore
}

// NewCoordinator создает новый экземпляр Coordinator.
func NewCoordinator(jobs JobAdvancer, orders OrderStore, lots LotStore) *Coordinator {
	return &Coordinator{jobs: jobs, orders: orders, lots: lots}
}

// ConfirmPickup фиксирует забор груза после проверки pickup-кода.
// Заказ и лот на этом шаге не трогаем: заказ отражается сервисом
// жизненного цикла, лот меняется только при доставке.
func (c *Coordinator) ConfirmPickup(jobID, courierID string) (*Result, error) {
	j, err := c.jobs.AdvancePickup(jobID, courierID)
	if err != nil {
		return nil, err
	}
	return &Result{Job: j, JobUpdated: true}, nil
}

// ConfirmDelivery выполняет каскад завершения: джоб -> DELIVERED,
// затем заказ -> DELIVERED, затем лот -> DELIVERED. Отказ на шаге
// джоба прерывает всё; отказ на шаге заказа или лота даёт
// предупреждение, доставка при этом остаётся засчитанной.
func (c *Coordinator) ConfirmDelivery(jobID, courierID string) (*Result, error) {
	j, err := c.jobs.AdvanceDelivery(jobID, courierID)
	if err != nil {
		return nil, err
	}
	res := &Result{Job: j, JobUpdated: true}

	order, err := c.orders.MarkOrderDelivered(j.OrderID)
	if err != nil || order == nil {
		log.Printf("ConfirmDelivery: заказ %s не обновлён: %v", j.OrderID, err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("delivery confirmed, but order %s status update failed", j.OrderID))
		return res, nil
	}
	res.OrderUpdated = true

	lotID := order.LotID
	if lotID == "" {
		lotID = j.LotID
	}
	if lotID == "" {
		// Лот не привязан, каскад на этом закончен.
		return res, nil
	}
	lot, err := c.lots.SetLotStatus(lotID, models.LotStatusDelivered)
	if err != nil || lot == nil {
		log.Printf("ConfirmDelivery: лот %s не обновлён: %v", lotID, err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("order delivered, but lot %s status update failed", lotID))
		return res, nil
	}
	res.LotUpdated = true
	return res, nil
}
