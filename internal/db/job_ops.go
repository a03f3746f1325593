package db

import (
	"database/sql"
	"log"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

const jobColumns = `id, order_id, lot_id, courier_id, status, assigned_at, completed_at, notes, created_at, updated_at`

// scanJob сканирует одну строку jobs в модель.
func scanJob(row interface{ Scan(...interface{}) error }) (*models.Job, error) {
	var j models.Job
	var courierID sql.NullString
	var assignedAt, completedAt sql.NullTime
	var status string
	err := row.Scan(&j.ID, &j.OrderID, &j.LotID, &courierID, &status, &assignedAt, &completedAt, &j.Notes, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Status = models.JobStatus(status)
	if courierID.Valid {
		v := courierID.String
		j.CourierID = &v
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		j.AssignedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		j.CompletedAt = &t
	}
	return &j, nil
}

// GetJobByID возвращает джоб по id или nil, если его нет.
func GetJobByID(jobID string) (*models.Job, error) {
	row := DB.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("GetJobByID: ошибка получения джоба %s: %v", jobID, err)
		return nil, err
	}
	return j, nil
}

// GetAvailableJobs возвращает джобы в пуле (без курьера), старые первыми.
func GetAvailableJobs() ([]models.Job, error) {
	rows, err := DB.Query(`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at`, string(models.JobStatusAvailable))
	if err != nil {
		log.Printf("GetAvailableJobs: ошибка запроса пула джобов: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

// GetJobsByCourier возвращает все джобы курьера, свежие первыми.
func GetJobsByCourier(courierID string) ([]models.Job, error) {
	rows, err := DB.Query(`SELECT `+jobColumns+` FROM jobs WHERE courier_id = $1 ORDER BY updated_at DESC`, courierID)
	if err != nil {
		log.Printf("GetJobsByCourier: ошибка запроса джобов курьера %s: %v", courierID, err)
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]models.Job, error) {
	var jobs []models.Job
	for rows.Next() {
		j, errScan := scanJob(rows)
		if errScan != nil {
			log.Printf("collectJobs: ошибка сканирования джоба: %v", errScan)
			continue
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		log.Printf("collectJobs: ошибка после итерации по строкам: %v", err)
		return nil, err
	}
	return jobs, nil
}

// CountActiveJobsByCourier считает нетерминальные джобы курьера.
// Используется для инварианта "один активный джоб на курьера".
func CountActiveJobsByCourier(courierID string) (int, error) {
	terminal := make([]string, 0, len(models.TerminalJobStatuses))
	for _, s := range models.TerminalJobStatuses {
		terminal = append(terminal, string(s))
	}
	var count int
	err := DB.QueryRow(`
        SELECT COUNT(*) FROM jobs
        WHERE courier_id = $1 AND NOT (status = ANY($2))`,
		courierID, pqStringArray(terminal)).Scan(&count)
	if err != nil {
		log.Printf("CountActiveJobsByCourier: ошибка подсчёта активных джобов курьера %s: %v", courierID, err)
		return 0, err
	}
	return count, nil
}

// AssignCourierToJob назначает курьера на джоб. Условие status='AVAILABLE'
// в UPDATE страхует от гонки двух одновременных назначений: проигравший
// получит nil.
func AssignCourierToJob(jobID, courierID string) (*models.Job, error) {
	row := DB.QueryRow(`
        UPDATE jobs SET courier_id = $2, status = $3, assigned_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND status = $4
        RETURNING `+jobColumns,
		jobID, courierID, string(models.JobStatusAssigned), string(models.JobStatusAvailable))
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("AssignCourierToJob: ошибка назначения курьера %s на джоб %s: %v", courierID, jobID, err)
		return nil, err
	}
	log.Printf("Курьер %s назначен на джоб %s.", courierID, jobID)
	return j, nil
}

// UnassignCourierFromJob возвращает джоб в пул: курьер и отметка
// назначения очищаются, статус снова AVAILABLE.
func UnassignCourierFromJob(jobID string) (*models.Job, error) {
	row := DB.QueryRow(`
        UPDATE jobs SET courier_id = NULL, status = $2, assigned_at = NULL, updated_at = NOW()
        WHERE id = $1 AND courier_id IS NOT NULL
        RETURNING `+jobColumns,
		jobID, string(models.JobStatusAvailable))
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("UnassignCourierFromJob: ошибка возврата джоба %s в пул: %v", jobID, err)
		return nil, err
	}
	log.Printf("Джоб %s возвращён в пул.", jobID)
	return j, nil
}

// MarkJobPickedUp переводит джоб ASSIGNED -> PICKED_UP.
func MarkJobPickedUp(jobID string) (*models.Job, error) {
	row := DB.QueryRow(`
        UPDATE jobs SET status = $2, updated_at = NOW()
        WHERE id = $1 AND status = $3
        RETURNING `+jobColumns,
		jobID, string(models.JobStatusPickedUp), string(models.JobStatusAssigned))
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("MarkJobPickedUp: ошибка перевода джоба %s в PICKED_UP: %v", jobID, err)
		return nil, err
	}
	return j, nil
}

// CancelJob переводит нетерминальный джоб в CANCELLED.
func CancelJob(jobID string) (*models.Job, error) {
	terminal := make([]string, 0, len(models.TerminalJobStatuses))
	for _, s := range models.TerminalJobStatuses {
		terminal = append(terminal, string(s))
	}
	row := DB.QueryRow(`
        UPDATE jobs SET status = $2, completed_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND NOT (status = ANY($3))
        RETURNING `+jobColumns,
		jobID, string(models.JobStatusCancelled), pqStringArray(terminal))
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("CancelJob: ошибка отмены джоба %s: %v", jobID, err)
		return nil, err
	}
	log.Printf("Джоб %s отменён.", jobID)
	return j, nil
}

// MarkJobDelivered переводит любой нетерминальный назначенный джоб в
// DELIVERED и фиксирует время завершения.
func MarkJobDelivered(jobID string) (*models.Job, error) {
	terminal := make([]string, 0, len(models.TerminalJobStatuses))
	for _, s := range models.TerminalJobStatuses {
		terminal = append(terminal, string(s))
	}
	row := DB.QueryRow(`
        UPDATE jobs SET status = $2, completed_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND courier_id IS NOT NULL AND NOT (status = ANY($3))
        RETURNING `+jobColumns,
		jobID, string(models.JobStatusDelivered), pqStringArray(terminal))
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("MarkJobDelivered: ошибка перевода джоба %s в DELIVERED: %v", jobID, err)
		return nil, err
	}
	return j, nil
}
