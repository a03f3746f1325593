package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// pqStringArray оборачивает срез для передачи в запрос как text[].
func pqStringArray(items []string) interface{} {
	return pq.Array(items)
}

const orderColumns = `id, lot_id, pickup_address_id, delivery_address_id, receiver_id, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	var status string
	err := row.Scan(&o.ID, &o.LotID, &o.PickupAddressID, &o.DeliveryAddressID, &o.ReceiverID, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	return &o, nil
}

// GetOrderByID возвращает заказ по id или nil, если его нет.
func GetOrderByID(orderID string) (*models.Order, error) {
	row := DB.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("GetOrderByID: ошибка получения заказа %s: %v", orderID, err)
		return nil, err
	}
	return o, nil
}

// CreateOrderWithJob создаёт заказ и сразу порождает его джоб в пуле.
// Обе записи создаются в одной транзакции: заказ без джоба недопустим.
func CreateOrderWithJob(o *models.Order) (*models.Order, *models.Job, error) {
	tx, err := DB.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка начала транзакции создания заказа: %v", err)
	}
	defer tx.Rollback()

	o.ID = uuid.New().String()
	o.Status = models.OrderStatusCreated
	row := tx.QueryRow(`
        INSERT INTO orders (id, lot_id, pickup_address_id, delivery_address_id, receiver_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING `+orderColumns,
		o.ID, o.LotID, o.PickupAddressID, o.DeliveryAddressID, o.ReceiverID, string(o.Status))
	created, err := scanOrder(row)
	if err != nil {
		log.Printf("CreateOrderWithJob: ошибка вставки заказа: %v", err)
		return nil, nil, err
	}

	jobID := uuid.New().String()
	jobRow := tx.QueryRow(`
        INSERT INTO jobs (id, order_id, lot_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING `+jobColumns,
		jobID, created.ID, created.LotID, string(models.JobStatusAvailable))
	job, err := scanJob(jobRow)
	if err != nil {
		log.Printf("CreateOrderWithJob: ошибка вставки джоба для заказа %s: %v", created.ID, err)
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("ошибка фиксации транзакции создания заказа: %v", err)
	}
	log.Printf("Создан заказ %s и джоб %s (лот %s).", created.ID, job.ID, created.LotID)
	return created, job, nil
}

// UpdateOrderStatus выставляет статус заказа и возвращает обновлённую запись.
func UpdateOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	row := DB.QueryRow(`
        UPDATE orders SET status = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING `+orderColumns,
		orderID, string(status))
	o, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("UpdateOrderStatus: ошибка обновления статуса заказа %s -> %s: %v", orderID, status, err)
		return nil, err
	}
	return o, nil
}

// MarkOrderDelivered помечает заказ доставленным. Возвращаемый заказ
// содержит lot_id - каскадному координатору он нужен для следующего шага.
func MarkOrderDelivered(orderID string) (*models.Order, error) {
	return UpdateOrderStatus(orderID, models.OrderStatusDelivered)
}

// GetOrderDetails возвращает заказ с адресами, именем получателя и,
// если курьер уже назначен, delivery-кодом для получателя.
func GetOrderDetails(orderID string) (*models.OrderDetails, error) {
	o, err := GetOrderByID(orderID)
	if err != nil || o == nil {
		return nil, err
	}

	details := &models.OrderDetails{Order: *o}

	if addr, errA := GetAddressByID(o.PickupAddressID); errA == nil {
		details.PickupAddress = addr
	}
	if addr, errA := GetAddressByID(o.DeliveryAddressID); errA == nil {
		details.DeliveryAddress = addr
	}
	if u, errU := GetUserByID(o.ReceiverID); errU == nil && u != nil {
		details.ReceiverName = u.FullName()
	}

	// Код доставки виден получателю только после назначения курьера.
	var code string
	err = DB.QueryRow(`
        SELECT p.code FROM pods p
        JOIN jobs j ON j.id = p.job_id
        WHERE j.order_id = $1 AND p.role = $2 AND j.courier_id IS NOT NULL AND p.used_at IS NULL`,
		orderID, string(models.PodRoleDelivery)).Scan(&code)
	if err == nil {
		details.DeliveryOTP = code
	} else if err != sql.ErrNoRows {
		log.Printf("GetOrderDetails: ошибка получения delivery-кода заказа %s: %v", orderID, err)
	}

	return details, nil
}

// GetOrdersForExport собирает строки для Excel-отчёта админа.
func GetOrdersForExport() ([]models.OrderExportRow, error) {
	rows, err := DB.Query(`
        SELECT o.id, COALESCE(l.description, ''), COALESCE(l.status, ''), o.status,
               COALESCE(j.status, ''),
               COALESCE(cu.first_name || ' ' || cu.last_name, ''),
               COALESCE(ru.first_name || ' ' || ru.last_name, ''),
               o.created_at
        FROM orders o
        LEFT JOIN lots l ON l.id = o.lot_id
        LEFT JOIN jobs j ON j.order_id = o.id
        LEFT JOIN users cu ON cu.id = j.courier_id
        LEFT JOIN users ru ON ru.id = o.receiver_id
        ORDER BY o.created_at DESC`)
	if err != nil {
		log.Printf("GetOrdersForExport: ошибка запроса заказов для отчёта: %v", err)
		return nil, err
	}
	defer rows.Close()

	var result []models.OrderExportRow
	for rows.Next() {
		var r models.OrderExportRow
		var lotStatus, orderStatus, jobStatus string
		if errScan := rows.Scan(&r.OrderID, &r.LotDescription, &lotStatus, &orderStatus, &jobStatus, &r.CourierName, &r.ReceiverName, &r.CreatedAt); errScan != nil {
			log.Printf("GetOrdersForExport: ошибка сканирования строки: %v", errScan)
			continue
		}
		r.LotStatus = models.LotStatus(lotStatus)
		r.OrderStatus = models.OrderStatus(orderStatus)
		r.JobStatus = models.JobStatus(jobStatus)
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
