package db

import (
	"database/sql"
	"log"

	"github.com/lib/pq"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

const lotColumns = `id, donor_id, description, status, items, address_id, created_at, updated_at`

func scanLot(row interface{ Scan(...interface{}) error }) (*models.Lot, error) {
	var l models.Lot
	var status string
	err := row.Scan(&l.ID, &l.DonorID, &l.Description, &status, pq.Array(&l.Items), &l.AddressID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = models.LotStatus(status)
	return &l, nil
}

// GetLotByID возвращает лот по id или nil, если его нет.
func GetLotByID(lotID string) (*models.Lot, error) {
	row := DB.QueryRow(`SELECT `+lotColumns+` FROM lots WHERE id = $1`, lotID)
	l, err := scanLot(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("GetLotByID: ошибка получения лота %s: %v", lotID, err)
		return nil, err
	}
	return l, nil
}

// UpdateLotStatus выставляет статус лота и возвращает обновлённую запись.
// Статус должен быть заранее нормализован на границе API.
func UpdateLotStatus(lotID string, status models.LotStatus) (*models.Lot, error) {
	row := DB.QueryRow(`
        UPDATE lots SET status = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING `+lotColumns,
		lotID, string(status))
	l, err := scanLot(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("UpdateLotStatus: ошибка обновления статуса лота %s -> %s: %v", lotID, status, err)
		return nil, err
	}
	log.Printf("Статус лота %s изменён на %s.", lotID, status)
	return l, nil
}
