package models

// Address - адрес забора или доставки. CRUD адресов вне ядра, сервису
// нужен только просмотр для обогащения джобов.
type Address struct {
	ID         string  `json:"addressId"`
	Line1      string  `json:"line1"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
}

// Display возвращает однострочное представление адреса для списков.
func (a *Address) Display() string {
	if a == nil {
		return ""
	}
	s := a.Line1
	if a.City != "" {
		s += ", " + a.City
	}
	return s
}
