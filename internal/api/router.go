package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andresl123/food-rescue-live-sub000/internal/cascade"
	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
	"github.com/andresl123/food-rescue-live-sub000/internal/enrichment"
	"github.com/andresl123/food-rescue-live-sub000/internal/lifecycle"
	"github.com/andresl123/food-rescue-live-sub000/internal/models"
	"github.com/andresl123/food-rescue-live-sub000/internal/notify"
	"github.com/andresl123/food-rescue-live-sub000/internal/pod"
)

// OrderStore - операции над заказами, нужные обработчикам.
type OrderStore interface {
	PlaceOrder(o *models.Order) (*models.Order, *models.Job, error)
	OrderDetails(orderID string) (*models.OrderDetails, error)
	MarkOrderDelivered(orderID string) (*models.Order, error)
	OrdersForExport() ([]models.OrderExportRow, error)
}

// LotStore - операции над лотами, нужные обработчикам.
type LotStore interface {
	GetLot(lotID string) (*models.Lot, error)
	SetLotStatus(lotID string, status models.LotStatus) (*models.Lot, error)
}

// DirectoryStore - справочные чтения для обогащения на стороне клиентов.
type DirectoryStore interface {
	User(userID string) (*models.User, error)
	Address(addressID string) (*models.Address, error)
}

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	SecretKey string
	Lifecycle *lifecycle.Service
	Pods      *pod.Service
	Cascade   *cascade.Coordinator
	Enricher  *enrichment.Enricher
	Orders    OrderStore
	Lots      LotStore
	Directory DirectoryStore
	Notifier  *notify.Notifier
}

// SetupRoutes настраивает все маршруты для API.
func SetupRoutes(r *chi.Mux, deps ApiDependencies) {
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(deps.SecretKey))

		// --- Джобы: пул, директория курьера, жизненный цикл ---
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/available", deps.GetAvailableJobs)
			r.Get("/courier/{courierId}", deps.GetCourierJobs)
			r.Get("/orders/details/{orderId}", deps.GetOrderDetails)
			r.Get("/{jobId}", deps.GetJob)

			r.Group(func(r chi.Router) {
				r.Use(RoleMiddleware(constants.ROLE_COURIER))
				r.Put("/{jobId}/assign-courier/{courierId}", deps.AssignCourier)
				r.Put("/{jobId}/unassign-courier", deps.UnassignCourier)
				r.Put("/{jobId}/cancel", deps.CancelJob)
				r.Put("/{jobId}/pickup", deps.AdvancePickup)
				r.Put("/{jobId}/delivered", deps.AdvanceDelivery)
			})
		})

		// --- Доказательства передачи (OTP) ---
		r.Route("/evidence/pods", func(r chi.Router) {
			r.Post("/generate-otp", deps.GeneratePods)
			r.Delete("/job/{jobId}", deps.DeletePods)
			r.Get("/verify/{jobId}/{role}", deps.VerifyPod)
			r.Get("/qr/{jobId}/{role}", deps.PodQR)
			r.Post("/confirm/{jobId}/{role}", deps.ConfirmPod)
		})

		// --- Заказы и лоты ---
		r.Post("/orders", deps.CreateOrder)
		r.Put("/orders/{orderId}/delivered", deps.MarkOrderDelivered)
		r.Get("/lots/{lotId}", deps.GetLot)
		r.Patch("/lots/{lotId}/status/ForCourier", deps.UpdateLotStatusForCourier)

		// --- Справочник для внешних потребителей ---
		r.Get("/addresses/{id}", deps.GetAddress)
		r.Get("/users/{id}", deps.GetUser)

		// --- Админ ---
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(RoleMiddleware(constants.ROLE_ADMIN))
			r.Get("/orders/export", deps.ExportOrders)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONSuccess(w, "ok", nil)
	})
}
