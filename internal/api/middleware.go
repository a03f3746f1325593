package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andresl123/food-rescue-live-sub000/internal/utils"
)

// UserContextKey - ключ для сохранения данных пользователя в контексте запроса.
var UserContextKey = &contextKey{"User"}

type contextKey struct {
	name string
}

// AuthUser - пользователь из проверенного токена. Токены выпускает
// внешний сервис аутентификации, здесь они только проверяются общим
// секретом.
type AuthUser struct {
	ID   string
	Role string
}

// Claims - полезная нагрузка JWT.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет заголовок Authorization: Bearer <jwt>.
func AuthMiddleware(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing Authorization header")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: malformed Authorization header")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
				}
				return []byte(secretKey), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				log.Printf("AuthMiddleware: невалидный токен: %v", err)
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: invalid token")
				return
			}

			user := AuthUser{ID: claims.Subject, Role: claims.Role}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleMiddleware проверяет, соответствует ли роль пользователя требуемой.
func RoleMiddleware(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(UserContextKey).(AuthUser)
			if !ok {
				writeJSONError(w, http.StatusForbidden, "Forbidden: user data not found in context")
				return
			}
			if !utils.IsRoleOrHigher(user.Role, requiredRole) {
				writeJSONError(w, http.StatusForbidden, "Forbidden: insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentUser достаёт пользователя запроса из контекста.
func currentUser(r *http.Request) (AuthUser, bool) {
	user, ok := r.Context().Value(UserContextKey).(AuthUser)
	return user, ok
}
