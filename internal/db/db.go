// Файл: internal/db/db.go
package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var DB *sql.DB // Глобальная переменная для хранения подключения к БД

// InitDB инициализирует соединение с базой данных и выполняет миграции.
func InitDB() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL не установлена")
	}

	var err error
	DB, err = sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	DB.SetMaxOpenConns(50)
	DB.SetMaxIdleConns(20)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("ошибка проверки соединения с базой данных: %v", err)
	}

	log.Println("Успешное подключение к базе данных.")

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции для создания таблиц: %v", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			log.Printf("Откат транзакции из-за ошибки: %v", err)
			tx.Rollback()
		}
	}()

	createTablesSQL := `
        CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            first_name VARCHAR(100),
            last_name VARCHAR(100),
            role TEXT,
            phone VARCHAR(20),
            created_at TIMESTAMP DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS addresses (
            id TEXT PRIMARY KEY,
            line1 TEXT,
            city TEXT,
            postal_code TEXT,
            latitude FLOAT,
            longitude FLOAT
        );
        CREATE TABLE IF NOT EXISTS lots (
            id TEXT PRIMARY KEY,
            donor_id TEXT REFERENCES users(id),
            description TEXT,
            status TEXT NOT NULL,
            items TEXT[],
            address_id TEXT REFERENCES addresses(id),
            created_at TIMESTAMP DEFAULT NOW(),
            updated_at TIMESTAMP DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            lot_id TEXT REFERENCES lots(id),
            pickup_address_id TEXT REFERENCES addresses(id),
            delivery_address_id TEXT REFERENCES addresses(id),
            receiver_id TEXT REFERENCES users(id),
            status TEXT NOT NULL,
            created_at TIMESTAMP DEFAULT NOW(),
            updated_at TIMESTAMP DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS jobs (
            id TEXT PRIMARY KEY,
            order_id TEXT REFERENCES orders(id) UNIQUE,
            lot_id TEXT REFERENCES lots(id),
            courier_id TEXT REFERENCES users(id),
            status TEXT NOT NULL,
            assigned_at TIMESTAMP,
            completed_at TIMESTAMP,
            notes TEXT DEFAULT '',
            created_at TIMESTAMP DEFAULT NOW(),
            updated_at TIMESTAMP DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS pods (
            id TEXT PRIMARY KEY,
            job_id TEXT REFERENCES jobs(id),
            role TEXT NOT NULL CHECK (role IN ('pickup', 'delivery')),
            code TEXT NOT NULL,
            used_at TIMESTAMP,
            created_at TIMESTAMP DEFAULT NOW(),
            UNIQUE (job_id, role)
        );
    `
	_, err = tx.Exec(createTablesSQL)
	if err != nil {
		return fmt.Errorf("ошибка создания таблиц: %v", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("ошибка фиксации транзакции создания таблиц: %v", err)
	}
	log.Println("Создание таблиц (если не существуют) завершено.")

	err = migrateDBSchema()
	if err != nil {
		return fmt.Errorf("ошибка выполнения миграции схемы: %v", err)
	}

	createIndexesSQL := `
        CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
        CREATE INDEX IF NOT EXISTS idx_jobs_courier_id_status ON jobs(courier_id, status);
        CREATE INDEX IF NOT EXISTS idx_jobs_order_id ON jobs(order_id);
        CREATE INDEX IF NOT EXISTS idx_pods_job_id ON pods(job_id);
        CREATE INDEX IF NOT EXISTS idx_orders_receiver_id ON orders(receiver_id);
        CREATE INDEX IF NOT EXISTS idx_orders_lot_id ON orders(lot_id);
        CREATE INDEX IF NOT EXISTS idx_lots_donor_id ON lots(donor_id);
    `
	indexStatements := strings.Split(strings.TrimSpace(createIndexesSQL), ";")
	for _, stmt := range indexStatements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		_, errIdx := DB.Exec(trimmedStmt)
		if errIdx != nil {
			log.Printf("Предупреждение: ошибка при создании индекса ('%s'): %v.", trimmedStmt, errIdx)
		}
	}
	log.Println("Создание индексов (если не существуют) завершено.")

	log.Println("Инициализация базы данных успешно завершена.")
	return nil
}

// migrateDBSchema выполняет необходимые миграции схемы базы данных.
// This function should be idempotent.
func migrateDBSchema() error {
	migrations := []struct {
		name string
		sql  string
	}{
		{
			name: "jobs.notes",
			sql:  `ALTER TABLE jobs ADD COLUMN IF NOT EXISTS notes TEXT DEFAULT '';`,
		},
		{
			// Код стал одноразовым: первая успешная проверка ставит отметку.
			name: "pods.used_at",
			sql:  `ALTER TABLE pods ADD COLUMN IF NOT EXISTS used_at TIMESTAMP;`,
		},
		{
			name: "jobs.lot_id",
			sql:  `ALTER TABLE jobs ADD COLUMN IF NOT EXISTS lot_id TEXT REFERENCES lots(id);`,
		},
	}

	for _, migration := range migrations {
		_, err := DB.Exec(migration.sql)
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("INFO: Миграция '%s' пропущена (объект уже существует). Детали: %v", migration.name, err)
			} else {
				return fmt.Errorf("ошибка миграции схемы ('%s'): %v", migration.name, err)
			}
		}
	}

	log.Println("Миграция схемы базы данных успешно выполнена (или не требовалась).")
	return nil
}

// CloseDB закрывает соединение с базой данных.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Соединение с базой данных закрыто.")
	}
}
