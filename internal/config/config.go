// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	Port          string
	DatabaseURL   string
	AppEnv        string
	JWTSecret     string
	TelegramToken string
	// CourierChatID - чат-группа курьеров для уведомлений о пуле джобов.
	CourierChatID int64
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AppEnv:        os.Getenv("ENV"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	var err error
	cfg.CourierChatID, err = strconv.ParseInt(os.Getenv("COURIER_GROUP_CHAT_ID"), 10, 64)
	if err != nil {
		log.Printf("Предупреждение: не удалось прочитать COURIER_GROUP_CHAT_ID: %v. Уведомления курьерам отключены.", err)
		cfg.CourierChatID = 0
	}

	if cfg.DatabaseURL == "" {
		log.Println("Критическая ошибка: DATABASE_URL не установлен.")
	}
	if cfg.JWTSecret == "" {
		log.Println("Предупреждение: JWT_SECRET не установлен. Аутентификация не будет работать.")
	}
	if cfg.TelegramToken == "" {
		log.Println("Предупреждение: TELEGRAM_APITOKEN не установлен. Telegram-уведомления отключены.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}
