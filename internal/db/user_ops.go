package db

import (
	"database/sql"
	"log"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// GetUserByID возвращает пользователя по id или nil, если его нет.
func GetUserByID(userID string) (*models.User, error) {
	var u models.User
	var firstName, lastName, role, phone sql.NullString
	err := DB.QueryRow(`SELECT id, first_name, last_name, role, phone, created_at FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &firstName, &lastName, &role, &phone, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("GetUserByID: ошибка получения пользователя %s: %v", userID, err)
		return nil, err
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.Role = role.String
	u.Phone = phone.String
	return &u, nil
}
