package enrichment

import (
	"fmt"
	"log"
	"sync"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// Directory - справочник платформы: заказы, лоты, адреса, пользователи.
type Directory interface {
	GetOrder(orderID string) (*models.Order, error)
	GetLot(lotID string) (*models.Lot, error)
	Address(addressID string) (*models.Address, error)
	User(userID string) (*models.User, error)
}

// EnrichedJob - джоб с подставленными справочными полями для карточки
// в пуле. Недостающие данные заменяются заглушками, джоб из выдачи
// не выпадает.
type EnrichedJob struct {
	models.Job
	PickupAddress   string `json:"pickupAddress"`
	DeliveryAddress string `json:"deliveryAddress"`
	ReceiverName    string `json:"receiverName"`
	LotDescription  string `json:"lotDescription"`
}

// Enricher дополняет джобы данными справочника через кэш сессии.
type Enricher struct {
	dir Directory
}

// NewEnricher создает новый экземпляр Enricher.
func NewEnricher(dir Directory) *Enricher {
	return &Enricher{dir: dir}
}

// EnrichJobs дополняет список джобов параллельно, по горутине на джоб.
// Кэш общий на вызов: повторяющиеся адреса и получатели загружаются
// один раз. Сбой обогащения одного джоба не трогает остальные.
func (e *Enricher) EnrichJobs(jobs []models.Job) []EnrichedJob {
	out := make([]EnrichedJob, len(jobs))
	cache := NewCache()
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = e.enrichOne(jobs[i], cache)
		}(i)
	}
	wg.Wait()
	return out
}

// EnrichJob дополняет один джоб со свежим кэшем.
func (e *Enricher) EnrichJob(j models.Job) EnrichedJob {
	return e.enrichOne(j, NewCache())
}

func (e *Enricher) enrichOne(j models.Job, cache *Cache) EnrichedJob {
	ej := EnrichedJob{
		Job:             j,
		PickupAddress:   "Pickup address unavailable",
		DeliveryAddress: "Delivery address unavailable",
		ReceiverName:    fmt.Sprintf("Recipient for %s", j.OrderID),
		LotDescription:  "Food lot",
	}

	order := e.order(j.OrderID, cache)
	if order == nil {
		log.Printf("Обогащение джоба %s: заказ %s недоступен.", j.ID, j.OrderID)
		return ej
	}
	if a := e.address(order.PickupAddressID, cache); a != nil {
		ej.PickupAddress = a.Display()
	}
	if a := e.address(order.DeliveryAddressID, cache); a != nil {
		ej.DeliveryAddress = a.Display()
	}
	if u := e.user(order.ReceiverID, cache); u != nil && u.FullName() != "" {
		ej.ReceiverName = u.FullName()
	}
	lotID := order.LotID
	if lotID == "" {
		lotID = j.LotID
	}
	if l := e.lot(lotID, cache); l != nil && l.Description != "" {
		ej.LotDescription = l.Description
	}
	return ej
}

func (e *Enricher) order(id string, cache *Cache) *models.Order {
	if id == "" {
		return nil
	}
	v, err := cache.GetOrFetch(KindOrder, id, func(id string) (interface{}, error) {
		o, err := e.dir.GetOrder(id)
		if err != nil || o == nil {
			return nil, err
		}
		return o, nil
	})
	if err != nil || v == nil {
		return nil
	}
	return v.(*models.Order)
}

func (e *Enricher) lot(id string, cache *Cache) *models.Lot {
	if id == "" {
		return nil
	}
	v, err := cache.GetOrFetch(KindLot, id, func(id string) (interface{}, error) {
		l, err := e.dir.GetLot(id)
		if err != nil || l == nil {
			return nil, err
		}
		return l, nil
	})
	if err != nil || v == nil {
		return nil
	}
	return v.(*models.Lot)
}

func (e *Enricher) address(id string, cache *Cache) *models.Address {
	if id == "" {
		return nil
	}
	v, err := cache.GetOrFetch(KindAddress, id, func(id string) (interface{}, error) {
		a, err := e.dir.Address(id)
		if err != nil || a == nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil || v == nil {
		return nil
	}
	return v.(*models.Address)
}

func (e *Enricher) user(id string, cache *Cache) *models.User {
	if id == "" {
		return nil
	}
	v, err := cache.GetOrFetch(KindUser, id, func(id string) (interface{}, error) {
		u, err := e.dir.User(id)
		if err != nil || u == nil {
			return nil, err
		}
		return u, nil
	})
	if err != nil || v == nil {
		return nil
	}
	return v.(*models.User)
}
