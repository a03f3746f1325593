package utils

import (
	"strings"
	"unicode"

	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
)

// SanitizeOTPCode повторяет контракт маскированного поля ввода: из строки
// убирается всё, кроме цифр, и результат обрезается до шести символов.
func SanitizeOTPCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
			if b.Len() >= constants.OTP_CODE_LENGTH {
				break
			}
		}
	}
	return b.String()
}

// roleRank задаёт иерархию ролей для проверки доступа.
// Доноры, получатели и курьеры - равноправные "полевые" роли.
var roleRank = map[string]int{
	constants.ROLE_DONOR:    1,
	constants.ROLE_RECEIVER: 1,
	constants.ROLE_COURIER:  1,
	constants.ROLE_OPERATOR: 2,
	constants.ROLE_ADMIN:    3,
}

// IsRoleOrHigher сообщает, покрывает ли роль пользователя требуемую.
// Оператор и админ проходят проверки полевых ролей; равные полевые роли
// друг друга не покрывают.
func IsRoleOrHigher(userRole, requiredRole string) bool {
	ur, ok := roleRank[userRole]
	if !ok {
		return false
	}
	rr, ok := roleRank[requiredRole]
	if !ok {
		return false
	}
	if ur == rr && ur == 1 {
		return userRole == requiredRole
	}
	return ur >= rr
}
