package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresl123/food-rescue-live-sub000/internal/cascade"
	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
	"github.com/andresl123/food-rescue-live-sub000/internal/enrichment"
	"github.com/andresl123/food-rescue-live-sub000/internal/lifecycle"
	"github.com/andresl123/food-rescue-live-sub000/internal/models"
	"github.com/andresl123/food-rescue-live-sub000/internal/pod"
)

const testSecret = "test-secret"

// memStore - хранилище всей платформы в памяти, двойник db.Store для
// маршрутных тестов.
type memStore struct {
	jobs      map[string]*models.Job
	orders    map[string]*models.Order
	lots      map[string]*models.Lot
	pods      map[string]*models.Pod
	users     map[string]*models.User
	addresses map[string]*models.Address
}

func newMemStore() *memStore {
	return &memStore{
		jobs:      make(map[string]*models.Job),
		orders:    make(map[string]*models.Order),
		lots:      make(map[string]*models.Lot),
		pods:      make(map[string]*models.Pod),
		users:     make(map[string]*models.User),
		addresses: make(map[string]*models.Address),
	}
}

func (s *memStore) GetJob(jobID string) (*models.Job, error) {
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (s *memStore) CountActiveJobs(courierID string) (int, error) {
	n := 0
	for _, j := range s.jobs {
		if j.CourierID != nil && *j.CourierID == courierID && j.Status != models.JobStatusAvailable && !j.Status.Terminal() {
			n++
		}
	}
	return n, nil
}

func (s *memStore) AssignCourier(jobID, courierID string) (*models.Job, error) {
	j := s.jobs[jobID]
	if j == nil || j.Status != models.JobStatusAvailable {
		return nil, nil
	}
	now := time.Now()
	j.CourierID = &courierID
	j.AssignedAt = &now
	j.Status = models.JobStatusAssigned
	cp := *j
	return &cp, nil
}

func (s *memStore) UnassignCourier(jobID string) (*models.Job, error) {
	j := s.jobs[jobID]
	if j == nil || j.CourierID == nil {
		return nil, nil
	}
	j.CourierID = nil
	j.AssignedAt = nil
	j.Status = models.JobStatusAvailable
	cp := *j
	return &cp, nil
}

func (s *memStore) MarkPickedUp(jobID string) (*models.Job, error) {
	j := s.jobs[jobID]
	if j == nil || j.Status != models.JobStatusAssigned {
		return nil, nil
	}
	j.Status = models.JobStatusPickedUp
	cp := *j
	return &cp, nil
}

func (s *memStore) MarkDelivered(jobID string) (*models.Job, error) {
	j := s.jobs[jobID]
	if j == nil || j.CourierID == nil || j.Status.Terminal() {
		return nil, nil
	}
	now := time.Now()
	j.Status = models.JobStatusDelivered
	j.CompletedAt = &now
	cp := *j
	return &cp, nil
}

func (s *memStore) MarkCancelled(jobID string) (*models.Job, error) {
	j := s.jobs[jobID]
	if j == nil || j.Status.Terminal() {
		return nil, nil
	}
	now := time.Now()
	j.Status = models.JobStatusCancelled
	j.CompletedAt = &now
	cp := *j
	return &cp, nil
}

func (s *memStore) AvailableJobs() ([]models.Job, error) {
	var out []models.Job
	for _, j := range s.jobs {
		if j.Status == models.JobStatusAvailable {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *memStore) JobsByCourier(courierID string) ([]models.Job, error) {
	var out []models.Job
	for _, j := range s.jobs {
		if j.CourierID != nil && *j.CourierID == courierID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *memStore) GetOrder(orderID string) (*models.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) SetOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	o := s.orders[orderID]
	if o == nil {
		return nil, nil
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (s *memStore) MarkOrderDelivered(orderID string) (*models.Order, error) {
	return s.SetOrderStatus(orderID, models.OrderStatusDelivered)
}

func (s *memStore) PlaceOrder(o *models.Order) (*models.Order, *models.Job, error) {
	o.ID = uuid.New().String()
	o.Status = models.OrderStatusCreated
	s.orders[o.ID] = o
	j := &models.Job{
		ID:      uuid.New().String(),
		OrderID: o.ID,
		LotID:   o.LotID,
		Status:  models.JobStatusAvailable,
	}
	s.jobs[j.ID] = j
	return o, j, nil
}

func (s *memStore) OrderDetails(orderID string) (*models.OrderDetails, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	details := &models.OrderDetails{Order: *o}
	details.PickupAddress = s.addresses[o.PickupAddressID]
	details.DeliveryAddress = s.addresses[o.DeliveryAddressID]
	if u := s.users[o.ReceiverID]; u != nil {
		details.ReceiverName = u.FullName()
	}
	for _, j := range s.jobs {
		if j.OrderID == orderID && j.CourierID != nil {
			if p := s.pods[podMapKey(j.ID, models.PodRoleDelivery)]; p != nil && p.UsedAt == nil {
				details.DeliveryOTP = p.Code
			}
		}
	}
	return details, nil
}

func (s *memStore) OrdersForExport() ([]models.OrderExportRow, error) {
	var out []models.OrderExportRow
	for _, o := range s.orders {
		row := models.OrderExportRow{OrderID: o.ID, OrderStatus: o.Status, CreatedAt: o.CreatedAt}
		if l := s.lots[o.LotID]; l != nil {
			row.LotDescription = l.Description
			row.LotStatus = l.Status
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *memStore) GetLot(lotID string) (*models.Lot, error) {
	l, ok := s.lots[lotID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (s *memStore) SetLotStatus(lotID string, status models.LotStatus) (*models.Lot, error) {
	l := s.lots[lotID]
	if l == nil {
		return nil, nil
	}
	l.Status = status
	cp := *l
	return &cp, nil
}

func podMapKey(jobID string, role models.PodRole) string {
	return jobID + "/" + string(role)
}

func (s *memStore) CreatePod(p *models.Pod) error {
	cp := *p
	s.pods[podMapKey(p.JobID, p.Role)] = &cp
	return nil
}

func (s *memStore) GetPod(jobID string, role models.PodRole) (*models.Pod, error) {
	p, ok := s.pods[podMapKey(jobID, role)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) MarkPodUsed(podID string) error {
	for _, p := range s.pods {
		if p.ID == podID {
			now := time.Now()
			p.UsedAt = &now
		}
	}
	return nil
}

func (s *memStore) DeletePods(jobID string) error {
	delete(s.pods, podMapKey(jobID, models.PodRolePickup))
	delete(s.pods, podMapKey(jobID, models.PodRoleDelivery))
	return nil
}

func (s *memStore) User(userID string) (*models.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) Address(addressID string) (*models.Address, error) {
	a, ok := s.addresses[addressID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func newTestServer(store *memStore) *httptest.Server {
	podService := pod.NewService(store)
	lifecycleService := lifecycle.NewService(store, store, podService)

	router := chi.NewRouter()
	SetupRoutes(router, ApiDependencies{
		SecretKey: testSecret,
		Lifecycle: lifecycleService,
		Pods:      podService,
		Cascade:   cascade.NewCoordinator(lifecycleService, store, store),
		Enricher:  enrichment.NewEnricher(store),
		Orders:    store,
		Lots:      store,
		Directory: store,
	})
	return httptest.NewServer(router)
}

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (*http.Response, jsonResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed jsonResponse
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func seedStore() *memStore {
	store := newMemStore()
	store.lots["lot-1"] = &models.Lot{ID: "lot-1", Description: "Овощи и хлеб", Status: models.LotStatusActive}
	store.addresses["addr-p"] = &models.Address{ID: "addr-p", Line1: "Ленина 1", City: "Казань"}
	store.addresses["addr-d"] = &models.Address{ID: "addr-d", Line1: "Мира 5", City: "Казань"}
	store.users["receiver-1"] = &models.User{ID: "receiver-1", FirstName: "Анна", LastName: "Иванова", Role: constants.ROLE_RECEIVER}
	store.orders["order-1"] = &models.Order{
		ID: "order-1", LotID: "lot-1",
		PickupAddressID: "addr-p", DeliveryAddressID: "addr-d",
		ReceiverID: "receiver-1", Status: models.OrderStatusCreated,
	}
	store.jobs["job-1"] = &models.Job{ID: "job-1", OrderID: "order-1", LotID: "lot-1", Status: models.JobStatusAvailable}
	return store
}

func TestAuth(t *testing.T) {
	srv := newTestServer(seedStore())
	defer srv.Close()

	t.Run("без токена", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodGet, "/jobs/available", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("мусорный токен", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodGet, "/jobs/available", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("донор не проходит курьерские маршруты", func(t *testing.T) {
		token := bearerToken(t, "donor-1", constants.ROLE_DONOR)
		resp, _ := doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/donor-1", token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAssignRoutes(t *testing.T) {
	t.Run("курьер берёт джоб", func(t *testing.T) {
		store := seedStore()
		srv := newTestServer(store)
		defer srv.Close()
		token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

		resp, body := doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "success", body.Status)

		assert.Equal(t, models.JobStatusAssigned, store.jobs["job-1"].Status)
		assert.NotNil(t, store.pods[podMapKey("job-1", models.PodRolePickup)])
		assert.NotNil(t, store.pods[podMapKey("job-1", models.PodRoleDelivery)])
		assert.Equal(t, models.OrderStatusAssigned, store.orders["order-1"].Status)
	})

	t.Run("второй активный джоб отклоняется", func(t *testing.T) {
		store := seedStore()
		store.orders["order-2"] = &models.Order{ID: "order-2", LotID: "lot-1", ReceiverID: "receiver-1", Status: models.OrderStatusCreated}
		store.jobs["job-2"] = &models.Job{ID: "job-2", OrderID: "order-2", LotID: "lot-1", Status: models.JobStatusAvailable}
		srv := newTestServer(store)
		defer srv.Close()
		token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

		resp, _ := doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doRequest(t, srv, http.MethodPut, "/jobs/job-2/assign-courier/courier-1", token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, constants.OnlyOneActiveJobError, body.Message)
		assert.Equal(t, models.JobStatusAvailable, store.jobs["job-2"].Status)
	})

	t.Run("чужого курьера назначить нельзя", func(t *testing.T) {
		srv := newTestServer(seedStore())
		defer srv.Close()
		token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

		resp, _ := doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-2", token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("занятый джоб отдаёт 409", func(t *testing.T) {
		store := seedStore()
		courier := "courier-9"
		store.jobs["job-1"].CourierID = &courier
		store.jobs["job-1"].Status = models.JobStatusAssigned
		srv := newTestServer(store)
		defer srv.Close()
		token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

		resp, body := doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, constants.JobNotAvailableError, body.Message)
	})

	t.Run("возврат джоба в пул", func(t *testing.T) {
		store := seedStore()
		srv := newTestServer(store)
		defer srv.Close()
		token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

		doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", token, nil)
		resp, _ := doRequest(t, srv, http.MethodPut, "/jobs/job-1/unassign-courier", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, models.JobStatusAvailable, store.jobs["job-1"].Status)
		assert.Nil(t, store.jobs["job-1"].CourierID)
		assert.Nil(t, store.pods[podMapKey("job-1", models.PodRolePickup)])
		assert.Equal(t, models.OrderStatusCreated, store.orders["order-1"].Status)
	})
}

func TestConfirmFlow(t *testing.T) {
	store := seedStore()
	srv := newTestServer(store)
	defer srv.Close()
	token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

	resp, _ := doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pickupCode := store.pods[podMapKey("job-1", models.PodRolePickup)].Code
	deliveryCode := store.pods[podMapKey("job-1", models.PodRoleDelivery)].Code

	t.Run("неверный код не двигает джоб", func(t *testing.T) {
		wrong := "000000"
		if wrong == pickupCode {
			wrong = "000001"
		}
		resp, _ := doRequest(t, srv, http.MethodPost, "/evidence/pods/confirm/job-1/donor", token, map[string]string{"code": wrong})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, models.JobStatusAssigned, store.jobs["job-1"].Status)
	})

	t.Run("код доставки не подходит донорской стороне", func(t *testing.T) {
		if deliveryCode == pickupCode {
			t.Skip("коды совпали")
		}
		resp, _ := doRequest(t, srv, http.MethodPost, "/evidence/pods/confirm/job-1/donor", token, map[string]string{"code": deliveryCode})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("подтверждение забора", func(t *testing.T) {
		resp, body := doRequest(t, srv, http.MethodPost, "/evidence/pods/confirm/job-1/donor", token, map[string]string{"code": pickupCode})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, constants.PickupVerifiedNotice, body.Message)
		assert.Equal(t, models.JobStatusPickedUp, store.jobs["job-1"].Status)
		// Заказ и лот забором не затрагиваются.
		assert.Equal(t, models.LotStatusActive, store.lots["lot-1"].Status)
	})

	t.Run("повтор использованного кода", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodPost, "/evidence/pods/confirm/job-1/donor", token, map[string]string{"code": pickupCode})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("подтверждение доставки каскадом", func(t *testing.T) {
		resp, body := doRequest(t, srv, http.MethodPost, "/evidence/pods/confirm/job-1/receiver", token, map[string]string{"code": deliveryCode})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, constants.DeliveryVerifiedNotice, body.Message)
		assert.Equal(t, models.JobStatusDelivered, store.jobs["job-1"].Status)
		assert.Equal(t, models.OrderStatusDelivered, store.orders["order-1"].Status)
		assert.Equal(t, models.LotStatusDelivered, store.lots["lot-1"].Status)

		data, err := json.Marshal(body.Data)
		require.NoError(t, err)
		var res cascade.Result
		require.NoError(t, json.Unmarshal(data, &res))
		assert.True(t, res.JobUpdated)
		assert.True(t, res.OrderUpdated)
		assert.True(t, res.LotUpdated)
		assert.Empty(t, res.Warnings)
	})
}

func TestConfirmDeliveryWithoutPickupStep(t *testing.T) {
	// Получатель подтверждает доставку по джобу, забор которого не был
	// зафиксирован отдельным шагом: код не должен сгорать впустую.
	store := seedStore()
	srv := newTestServer(store)
	defer srv.Close()
	token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

	resp, _ := doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deliveryCode := store.pods[podMapKey("job-1", models.PodRoleDelivery)].Code

	resp, body := doRequest(t, srv, http.MethodPost, "/evidence/pods/confirm/job-1/receiver", token, map[string]string{"code": deliveryCode})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, constants.DeliveryVerifiedNotice, body.Message)
	assert.Equal(t, models.JobStatusDelivered, store.jobs["job-1"].Status)
	assert.Equal(t, models.OrderStatusDelivered, store.orders["order-1"].Status)
	assert.Equal(t, models.LotStatusDelivered, store.lots["lot-1"].Status)
}

func TestVerifyRoute(t *testing.T) {
	store := seedStore()
	srv := newTestServer(store)
	defer srv.Close()
	token := bearerToken(t, "courier-1", constants.ROLE_COURIER)
	doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", token, nil)
	code := store.pods[podMapKey("job-1", models.PodRolePickup)].Code

	t.Run("неверный код - verified false, не ошибка", func(t *testing.T) {
		wrong := "999999"
		if wrong == code {
			wrong = "999998"
		}
		resp, body := doRequest(t, srv, http.MethodGet, "/evidence/pods/verify/job-1/donor?code="+wrong, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := json.Marshal(body.Data)
		assert.JSONEq(t, `{"verified": false}`, string(data))
	})

	t.Run("код с мусором из поля ввода", func(t *testing.T) {
		spaced := fmt.Sprintf("%c %c%c-%c%c%c", code[0], code[1], code[2], code[3], code[4], code[5])
		resp, body := doRequest(t, srv, http.MethodGet, "/evidence/pods/verify/job-1/donor?code="+url.QueryEscape(spaced), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := json.Marshal(body.Data)
		assert.JSONEq(t, `{"verified": true}`, string(data))
	})

	t.Run("неизвестная роль", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodGet, "/evidence/pods/verify/job-1/stranger?code=123456", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("QR-код отдаётся как PNG", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/evidence/pods/qr/job-1/receiver", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	})

	t.Run("QR для джоба без кодов", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodGet, "/evidence/pods/qr/job-x/receiver", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestOrderRoutes(t *testing.T) {
	t.Run("размещение заказа создаёт джоб в пуле", func(t *testing.T) {
		store := seedStore()
		srv := newTestServer(store)
		defer srv.Close()
		token := bearerToken(t, "operator-1", constants.ROLE_OPERATOR)

		resp, body := doRequest(t, srv, http.MethodPost, "/orders", token, CreateOrderRequest{
			LotID: "lot-1", PickupAddressID: "addr-p", DeliveryAddressID: "addr-d", ReceiverID: "receiver-1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "success", body.Status)
		assert.Len(t, store.orders, 2)
		assert.Len(t, store.jobs, 2)
	})

	t.Run("неполный запрос заказа", func(t *testing.T) {
		srv := newTestServer(seedStore())
		defer srv.Close()
		token := bearerToken(t, "operator-1", constants.ROLE_OPERATOR)
		resp, _ := doRequest(t, srv, http.MethodPost, "/orders", token, CreateOrderRequest{LotID: "lot-1"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("код доставки виден получателю и скрыт от курьера", func(t *testing.T) {
		store := seedStore()
		srv := newTestServer(store)
		defer srv.Close()
		courierToken := bearerToken(t, "courier-1", constants.ROLE_COURIER)
		doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", courierToken, nil)

		resp, body := doRequest(t, srv, http.MethodGet, "/jobs/orders/details/order-1", bearerToken(t, "receiver-1", constants.ROLE_RECEIVER), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := json.Marshal(body.Data)
		var details models.OrderDetails
		require.NoError(t, json.Unmarshal(data, &details))
		assert.Equal(t, store.pods[podMapKey("job-1", models.PodRoleDelivery)].Code, details.DeliveryOTP)
		assert.Equal(t, "Анна Иванова", details.ReceiverName)

		_, body = doRequest(t, srv, http.MethodGet, "/jobs/orders/details/order-1", courierToken, nil)
		data, _ = json.Marshal(body.Data)
		var courierView models.OrderDetails
		require.NoError(t, json.Unmarshal(data, &courierView))
		assert.Empty(t, courierView.DeliveryOTP)
	})

	t.Run("ручной довод заказа до DELIVERED", func(t *testing.T) {
		store := seedStore()
		srv := newTestServer(store)
		defer srv.Close()
		token := bearerToken(t, "operator-1", constants.ROLE_OPERATOR)

		resp, _ := doRequest(t, srv, http.MethodPut, "/orders/order-1/delivered", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, models.OrderStatusDelivered, store.orders["order-1"].Status)
	})
}

func TestLotRoutes(t *testing.T) {
	store := seedStore()
	srv := newTestServer(store)
	defer srv.Close()
	token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

	t.Run("обновление статуса лота", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodPatch, "/lots/lot-1/status/ForCourier?status=delivered", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, models.LotStatusDelivered, store.lots["lot-1"].Status)
	})

	t.Run("неизвестный статус лота", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodPatch, "/lots/lot-1/status/ForCourier?status=bogus", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("несуществующий лот", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodPatch, "/lots/lot-x/status/ForCourier?status=ACTIVE", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPoolRoute(t *testing.T) {
	store := seedStore()
	srv := newTestServer(store)
	defer srv.Close()
	token := bearerToken(t, "courier-1", constants.ROLE_COURIER)

	resp, body := doRequest(t, srv, http.MethodGet, "/jobs/available", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var jobs []enrichment.EnrichedJob
	require.NoError(t, json.Unmarshal(data, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-1", jobs[0].ID)
	assert.Contains(t, jobs[0].PickupAddress, "Ленина 1")
	assert.Equal(t, "Овощи и хлеб", jobs[0].LotDescription)
}

func TestExportRoute(t *testing.T) {
	store := seedStore()
	srv := newTestServer(store)
	defer srv.Close()

	t.Run("оператору экспорт закрыт", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodGet, "/api/admin/orders/export", bearerToken(t, "operator-1", constants.ROLE_OPERATOR), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("админ получает xlsx со статусом лота", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/orders/export", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+bearerToken(t, "admin-1", constants.ROLE_ADMIN))
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "orders_report_")

		f, err := excelize.OpenReader(resp.Body)
		require.NoError(t, err)
		defer f.Close()

		header, err := f.GetCellValue("Заказы", "C1")
		require.NoError(t, err)
		assert.Equal(t, "Статус лота", header)

		lotStatus, err := f.GetCellValue("Заказы", "C2")
		require.NoError(t, err)
		assert.Equal(t, constants.LotStatusDisplayMap[models.LotStatusActive], lotStatus)
	})
}

func TestCourierJobsRoute(t *testing.T) {
	store := seedStore()
	srv := newTestServer(store)
	defer srv.Close()
	courierToken := bearerToken(t, "courier-1", constants.ROLE_COURIER)
	doRequest(t, srv, http.MethodPut, "/jobs/job-1/assign-courier/courier-1", courierToken, nil)

	t.Run("курьер видит свои джобы", func(t *testing.T) {
		resp, body := doRequest(t, srv, http.MethodGet, "/jobs/courier/courier-1", courierToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := json.Marshal(body.Data)
		var jobs []models.Job
		require.NoError(t, json.Unmarshal(data, &jobs))
		assert.Len(t, jobs, 1)
	})

	t.Run("active=true сужает выдачу до активного набора", func(t *testing.T) {
		resp, body := doRequest(t, srv, http.MethodGet, "/jobs/courier/courier-1?active=true", courierToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := json.Marshal(body.Data)
		var jobs []models.Job
		require.NoError(t, json.Unmarshal(data, &jobs))
		require.Len(t, jobs, 1)

		// Завершённый джоб из активного набора выпадает, из общего - нет.
		store.jobs["job-1"].Status = models.JobStatusDelivered
		resp, body = doRequest(t, srv, http.MethodGet, "/jobs/courier/courier-1?active=true", courierToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ = json.Marshal(body.Data)
		jobs = nil
		require.NoError(t, json.Unmarshal(data, &jobs))
		assert.Empty(t, jobs)

		_, body = doRequest(t, srv, http.MethodGet, "/jobs/courier/courier-1", courierToken, nil)
		data, _ = json.Marshal(body.Data)
		jobs = nil
		require.NoError(t, json.Unmarshal(data, &jobs))
		assert.Len(t, jobs, 1)
	})

	t.Run("чужие джобы закрыты", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodGet, "/jobs/courier/courier-1", bearerToken(t, "courier-2", constants.ROLE_COURIER), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("оператор видит любого курьера", func(t *testing.T) {
		resp, _ := doRequest(t, srv, http.MethodGet, "/jobs/courier/courier-1", bearerToken(t, "operator-1", constants.ROLE_OPERATOR), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
