package models

import "time"

// User - участник платформы: донор, получатель, курьер или оператор.
// Профили и аутентификация ведутся внешним сервисом, здесь хранится
// минимум, нужный для обогащения списков и проверки ролей.
type User struct {
	ID        string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName возвращает отображаемое имя пользователя.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
