package db

import (
	"database/sql"
	"log"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// GetAddressByID возвращает адрес по id или nil, если его нет.
func GetAddressByID(addressID string) (*models.Address, error) {
	var a models.Address
	var postalCode sql.NullString
	var lat, lng sql.NullFloat64
	err := DB.QueryRow(`SELECT id, line1, city, postal_code, latitude, longitude FROM addresses WHERE id = $1`, addressID).
		Scan(&a.ID, &a.Line1, &a.City, &postalCode, &lat, &lng)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("GetAddressByID: ошибка получения адреса %s: %v", addressID, err)
		return nil, err
	}
	a.PostalCode = postalCode.String
	a.Latitude = lat.Float64
	a.Longitude = lng.Float64
	return &a, nil
}
