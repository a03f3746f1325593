package db

import (
	"database/sql"
	"log"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

const podColumns = `id, job_id, role, code, used_at, created_at`

func scanPod(row interface{ Scan(...interface{}) error }) (*models.Pod, error) {
	var p models.Pod
	var role string
	var usedAt sql.NullTime
	err := row.Scan(&p.ID, &p.JobID, &role, &p.Code, &usedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Role = models.PodRole(role)
	if usedAt.Valid {
		t := usedAt.Time
		p.UsedAt = &t
	}
	return &p, nil
}

// InsertPod сохраняет OTP-код. Повторная генерация для той же пары
// (job, role) перезаписывает код и сбрасывает отметку использования.
func InsertPod(p *models.Pod) error {
	_, err := DB.Exec(`
        INSERT INTO pods (id, job_id, role, code, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (job_id, role) DO UPDATE SET
        code = EXCLUDED.code, used_at = NULL, created_at = NOW()`,
		p.ID, p.JobID, string(p.Role), p.Code)
	if err != nil {
		log.Printf("InsertPod: ошибка сохранения кода (джоб %s, роль %s): %v", p.JobID, p.Role, err)
		return err
	}
	return nil
}

// GetPodByJobAndRole возвращает код по джобу и роли или nil, если его нет.
func GetPodByJobAndRole(jobID string, role models.PodRole) (*models.Pod, error) {
	row := DB.QueryRow(`SELECT `+podColumns+` FROM pods WHERE job_id = $1 AND role = $2`, jobID, string(role))
	p, err := scanPod(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("GetPodByJobAndRole: ошибка получения кода (джоб %s, роль %s): %v", jobID, role, err)
		return nil, err
	}
	return p, nil
}

// MarkPodUsed помечает код использованным после успешной проверки.
func MarkPodUsed(podID string) error {
	_, err := DB.Exec(`UPDATE pods SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`, podID)
	if err != nil {
		log.Printf("MarkPodUsed: ошибка отметки кода %s: %v", podID, err)
		return err
	}
	return nil
}

// DeletePodsByJob удаляет оба кода джоба, чтобы старые коды нельзя было
// повторно предъявить после возврата джоба в пул.
func DeletePodsByJob(jobID string) error {
	result, err := DB.Exec(`DELETE FROM pods WHERE job_id = $1`, jobID)
	if err != nil {
		log.Printf("DeletePodsByJob: ошибка удаления кодов джоба %s: %v", jobID, err)
		return err
	}
	if n, _ := result.RowsAffected(); n > 0 {
		log.Printf("Удалены OTP-коды джоба %s (%d шт.).", jobID, n)
	}
	return nil
}
