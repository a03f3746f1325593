package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
	"github.com/andresl123/food-rescue-live-sub000/internal/lifecycle"
	"github.com/andresl123/food-rescue-live-sub000/internal/models"
	"github.com/andresl123/food-rescue-live-sub000/internal/utils"
)

// jsonResponse - вспомогательная структура для стандартного ответа API
type jsonResponse struct {
	Status  string      `json:"status"` // "success" или "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CreateOrderRequest - структура запроса на размещение заказа.
type CreateOrderRequest struct {
	LotID             string `json:"lotId"`
	PickupAddressID   string `json:"pickupAddressId"`
	DeliveryAddressID string `json:"deliveryAddressId"`
	ReceiverID        string `json:"receiverId"`
}

// VerifyResponse - результат проверки OTP-кода.
type VerifyResponse struct {
	Verified bool `json:"verified"`
}

// --- Вспомогательные функции для JSON-ответов ---
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(jsonResponse{Status: "error", Message: message})
}

func writeJSONSuccess(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(jsonResponse{Status: "success", Message: message, Data: data})
}

// writeLifecycleError переводит ошибки сервисов в HTTP-статусы.
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrJobNotFound):
		writeJSONError(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, lifecycle.ErrJobNotAvailable):
		writeJSONError(w, http.StatusConflict, constants.JobNotAvailableError)
	case errors.Is(err, lifecycle.ErrCourierBusy):
		writeJSONError(w, http.StatusConflict, constants.OnlyOneActiveJobError)
	case errors.Is(err, lifecycle.ErrNotJobOwner):
		writeJSONError(w, http.StatusForbidden, "Job is assigned to another courier")
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		writeJSONError(w, http.StatusConflict, "Job status does not allow this operation")
	default:
		log.Printf("Внутренняя ошибка обработчика: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// actorCourierID - id курьера для проверки владельца джоба. Для
// оператора и админа возвращает пустую строку: проверка пропускается.
func actorCourierID(user AuthUser) string {
	if utils.IsRoleOrHigher(user.Role, constants.ROLE_OPERATOR) {
		return ""
	}
	return user.ID
}

// --- Джобы ---

// GetAvailableJobs отдаёт пул доступных джобов, обогащённых адресами,
// получателем и описанием лота.
func (deps *ApiDependencies) GetAvailableJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := deps.Lifecycle.Pool()
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSONSuccess(w, "Available jobs", deps.Enricher.EnrichJobs(jobs))
}

// GetCourierJobs отдаёт все джобы курьера. Курьер видит только свои,
// оператор и админ - любые. С ?active=true выдача сужается до
// активного набора (назначенные нетерминальные джобы).
func (deps *ApiDependencies) GetCourierJobs(w http.ResponseWriter, r *http.Request) {
	courierID := chi.URLParam(r, "courierId")
	user, _ := currentUser(r)
	if actorCourierID(user) != "" && user.ID != courierID {
		writeJSONError(w, http.StatusForbidden, constants.AccessDeniedMessage)
		return
	}
	jobs, err := deps.Lifecycle.CourierJobs(courierID)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	if r.URL.Query().Get("active") == "true" {
		active := make([]models.Job, 0, len(jobs))
		for i := range jobs {
			if lifecycle.IsActive(&jobs[i]) {
				active = append(active, jobs[i])
			}
		}
		jobs = active
	}
	writeJSONSuccess(w, "Courier jobs", jobs)
}

// GetJob отдаёт джоб по id.
func (deps *ApiDependencies) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := deps.Lifecycle.Get(chi.URLParam(r, "jobId"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSONSuccess(w, "Job", j)
}

// AssignCourier закрепляет джоб за курьером. Курьер берёт джоб только
// на себя; назначить чужого может оператор.
func (deps *ApiDependencies) AssignCourier(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	courierID := chi.URLParam(r, "courierId")
	user, _ := currentUser(r)
	if actorCourierID(user) != "" && user.ID != courierID {
		writeJSONError(w, http.StatusForbidden, constants.AccessDeniedMessage)
		return
	}
	j, err := deps.Lifecycle.Assign(jobID, courierID)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	deps.Notifier.JobAssigned(j)
	writeJSONSuccess(w, "Job assigned", j)
}

// UnassignCourier возвращает джоб в пул.
func (deps *ApiDependencies) UnassignCourier(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	j, err := deps.Lifecycle.Unassign(chi.URLParam(r, "jobId"), actorCourierID(user))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	deps.Notifier.JobPooled(j)
	writeJSONSuccess(w, "Job returned to pool", j)
}

// CancelJob отменяет джоб.
func (deps *ApiDependencies) CancelJob(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	j, err := deps.Lifecycle.Cancel(chi.URLParam(r, "jobId"), actorCourierID(user))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSONSuccess(w, "Job cancelled", j)
}

// AdvancePickup переводит джоб в PICKED_UP без проверки кода. Экран
// подтверждения использует /evidence/pods/confirm, этот маршрут -
// прямой переход для операторских сценариев.
func (deps *ApiDependencies) AdvancePickup(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	j, err := deps.Lifecycle.AdvancePickup(chi.URLParam(r, "jobId"), actorCourierID(user))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSONSuccess(w, "Job picked up", j)
}

// AdvanceDelivery переводит джоб в DELIVERED без проверки кода.
func (deps *ApiDependencies) AdvanceDelivery(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	j, err := deps.Lifecycle.AdvanceDelivery(chi.URLParam(r, "jobId"), actorCourierID(user))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSONSuccess(w, "Job delivered", j)
}

// --- OTP-коды ---

// GeneratePods перевыпускает OTP-пару джоба (?jobId=).
func (deps *ApiDependencies) GeneratePods(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		writeJSONError(w, http.StatusBadRequest, "jobId query parameter is required")
		return
	}
	if _, err := deps.Lifecycle.Get(jobID); err != nil {
		writeLifecycleError(w, err)
		return
	}
	pair, err := deps.Pods.IssuePair(jobID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to generate OTP pair")
		return
	}
	writeJSONSuccess(w, "OTP pair generated", pair)
}

// DeletePods отзывает оба кода джоба.
func (deps *ApiDependencies) DeletePods(w http.ResponseWriter, r *http.Request) {
	if err := deps.Pods.RevokePair(chi.URLParam(r, "jobId")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete OTP codes")
		return
	}
	writeJSONSuccess(w, "OTP codes deleted", nil)
}

// podParams разбирает jobId и роль из URL.
func podParams(w http.ResponseWriter, r *http.Request) (string, models.PodRole, bool) {
	jobID := chi.URLParam(r, "jobId")
	role, ok := models.NormalizePodRole(chi.URLParam(r, "role"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Unknown role, expected donor or receiver")
		return "", "", false
	}
	return jobID, role, true
}

// VerifyPod проверяет предъявленный код (?code=). Статусы при этом не
// меняются; неверный код - не ошибка, а verified=false.
func (deps *ApiDependencies) VerifyPod(w http.ResponseWriter, r *http.Request) {
	jobID, role, ok := podParams(w, r)
	if !ok {
		return
	}
	code := utils.SanitizeOTPCode(r.URL.Query().Get("code"))
	verified, err := deps.Pods.Verify(jobID, role, code)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Verification failed")
		return
	}
	writeJSONSuccess(w, "Verification result", VerifyResponse{Verified: verified})
}

// PodQR отдаёт PNG с QR-кодом OTP для экрана донора или получателя.
func (deps *ApiDependencies) PodQR(w http.ResponseWriter, r *http.Request) {
	jobID, role, ok := podParams(w, r)
	if !ok {
		return
	}
	png, err := deps.Pods.QRImage(jobID, role)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "OTP code not found for this job and role")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ConfirmPod - серверная сторона экрана подтверждения: проверка кода,
// затем продвижение джоба и каскад. Код в теле запроса.
func (deps *ApiDependencies) ConfirmPod(w http.ResponseWriter, r *http.Request) {
	jobID, role, ok := podParams(w, r)
	if !ok {
		return
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	code := utils.SanitizeOTPCode(body.Code)
	verified, err := deps.Pods.Verify(jobID, role, code)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Verification failed")
		return
	}
	if !verified {
		// Проверка провалилась, состояние не тронуто: можно вводить код заново.
		writeJSONError(w, http.StatusConflict, "Invalid or expired code")
		return
	}

	user, _ := currentUser(r)
	actor := actorCourierID(user)
	if role == models.PodRolePickup {
		res, err := deps.Cascade.ConfirmPickup(jobID, actor)
		if err != nil {
			writeLifecycleError(w, err)
			return
		}
		writeJSONSuccess(w, constants.PickupVerifiedNotice, res)
		return
	}
	res, err := deps.Cascade.ConfirmDelivery(jobID, actor)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	deps.Notifier.DeliveryCompleted(res.Job, res.Warnings)
	writeJSONSuccess(w, constants.DeliveryVerifiedNotice, res)
}

// --- Заказы ---

// CreateOrder размещает заказ на лот и создаёт его джоб в пуле.
func (deps *ApiDependencies) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.LotID == "" || req.PickupAddressID == "" || req.DeliveryAddressID == "" || req.ReceiverID == "" {
		writeJSONError(w, http.StatusBadRequest, "lotId, pickupAddressId, deliveryAddressId and receiverId are required")
		return
	}
	order, job, err := deps.Orders.PlaceOrder(&models.Order{
		LotID:             req.LotID,
		PickupAddressID:   req.PickupAddressID,
		DeliveryAddressID: req.DeliveryAddressID,
		ReceiverID:        req.ReceiverID,
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}
	deps.Notifier.JobPooled(job)
	writeJSONSuccess(w, "Order placed", map[string]interface{}{"order": order, "job": job})
}

// MarkOrderDelivered переводит заказ в DELIVERED. Шаг каскада, но
// доступен и напрямую для ручного довода после частичного сбоя.
func (deps *ApiDependencies) MarkOrderDelivered(w http.ResponseWriter, r *http.Request) {
	order, err := deps.Orders.MarkOrderDelivered(chi.URLParam(r, "orderId"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if order == nil {
		writeJSONError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSONSuccess(w, "Order delivered", order)
}

// GetOrderDetails отдаёт заказ с адресами и именем получателя. Код
// доставки виден только получателю заказа, оператору и админу.
func (deps *ApiDependencies) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	details, err := deps.Orders.OrderDetails(chi.URLParam(r, "orderId"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if details == nil {
		writeJSONError(w, http.StatusNotFound, "Order not found")
		return
	}
	user, _ := currentUser(r)
	if user.ID != details.ReceiverID && !utils.IsRoleOrHigher(user.Role, constants.ROLE_OPERATOR) {
		details.DeliveryOTP = ""
	}
	writeJSONSuccess(w, "Order details", details)
}

// --- Лоты ---

// GetLot отдаёт лот по id.
func (deps *ApiDependencies) GetLot(w http.ResponseWriter, r *http.Request) {
	lot, err := deps.Lots.GetLot(chi.URLParam(r, "lotId"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to load lot")
		return
	}
	if lot == nil {
		writeJSONError(w, http.StatusNotFound, "Lot not found")
		return
	}
	writeJSONSuccess(w, "Lot", lot)
}

// UpdateLotStatusForCourier обновляет статус лота (?status=).
func (deps *ApiDependencies) UpdateLotStatusForCourier(w http.ResponseWriter, r *http.Request) {
	status, ok := models.NormalizeLotStatus(r.URL.Query().Get("status"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Unknown lot status")
		return
	}
	lot, err := deps.Lots.SetLotStatus(chi.URLParam(r, "lotId"), status)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to update lot")
		return
	}
	if lot == nil {
		writeJSONError(w, http.StatusNotFound, "Lot not found")
		return
	}
	writeJSONSuccess(w, "Lot updated", lot)
}

// --- Справочник ---

// GetAddress отдаёт адрес по id.
func (deps *ApiDependencies) GetAddress(w http.ResponseWriter, r *http.Request) {
	a, err := deps.Directory.Address(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to load address")
		return
	}
	if a == nil {
		writeJSONError(w, http.StatusNotFound, "Address not found")
		return
	}
	writeJSONSuccess(w, "Address", a)
}

// GetUser отдаёт пользователя по id.
func (deps *ApiDependencies) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := deps.Directory.User(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if u == nil {
		writeJSONError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSONSuccess(w, "User", u)
}
