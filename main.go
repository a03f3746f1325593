package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/andresl123/food-rescue-live-sub000/internal/api"
	"github.com/andresl123/food-rescue-live-sub000/internal/cascade"
	"github.com/andresl123/food-rescue-live-sub000/internal/config"
	"github.com/andresl123/food-rescue-live-sub000/internal/db"
	"github.com/andresl123/food-rescue-live-sub000/internal/enrichment"
	"github.com/andresl123/food-rescue-live-sub000/internal/lifecycle"
	"github.com/andresl123/food-rescue-live-sub000/internal/notify"
	"github.com/andresl123/food-rescue-live-sub000/internal/pod"
)

func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	if err := db.InitDB(); err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать базу данных: %v", err)
	}
	defer db.CloseDB()

	notifier, err := notify.NewNotifier(cfg.TelegramToken, cfg.CourierChatID, cfg.AppEnv == "dev")
	if err != nil {
		// Уведомления вспомогательные, без них сервис работает.
		log.Printf("Предупреждение: Telegram-уведомления недоступны: %v", err)
	}

	// --- Сборка сервисов ядра ---
	store := db.Store{}
	podService := pod.NewService(store)
	lifecycleService := lifecycle.NewService(store, store, podService)
	cascadeCoordinator := cascade.NewCoordinator(lifecycleService, store, store)
	enricher := enrichment.NewEnricher(store)

	// --- Настройка роутера и Middleware ---
	apiRouter := chi.NewRouter()

	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	apiDeps := api.ApiDependencies{
		SecretKey: cfg.JWTSecret,
		Lifecycle: lifecycleService,
		Pods:      podService,
		Cascade:   cascadeCoordinator,
		Enricher:  enricher,
		Orders:    store,
		Lots:      store,
		Directory: store,
		Notifier:  notifier,
	}

	api.SetupRoutes(apiRouter, apiDeps)

	log.Printf("Запуск HTTP-сервера на порту %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, apiRouter); err != nil {
		log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
	}
}
