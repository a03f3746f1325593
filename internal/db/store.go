package db

import "github.com/andresl123/food-rescue-live-sub000/internal/models"

// Store - тонкий адаптер над функциями пакета, чтобы сервисы ядра
// (lifecycle, pod, cascade, enrichment) зависели от интерфейсов, а не от
// глобального подключения.
type Store struct{}

func (Store) GetJob(jobID string) (*models.Job, error) { return GetJobByID(jobID) }

func (Store) CountActiveJobs(courierID string) (int, error) {
	return CountActiveJobsByCourier(courierID)
}

func (Store) AssignCourier(jobID, courierID string) (*models.Job, error) {
	return AssignCourierToJob(jobID, courierID)
}

func (Store) UnassignCourier(jobID string) (*models.Job, error) {
	return UnassignCourierFromJob(jobID)
}

func (Store) MarkPickedUp(jobID string) (*models.Job, error)  { return MarkJobPickedUp(jobID) }
func (Store) MarkDelivered(jobID string) (*models.Job, error) { return MarkJobDelivered(jobID) }
func (Store) MarkCancelled(jobID string) (*models.Job, error) { return CancelJob(jobID) }

func (Store) AvailableJobs() ([]models.Job, error) { return GetAvailableJobs() }
func (Store) JobsByCourier(courierID string) ([]models.Job, error) {
	return GetJobsByCourier(courierID)
}

func (Store) GetOrder(orderID string) (*models.Order, error) { return GetOrderByID(orderID) }
func (Store) MarkOrderDelivered(orderID string) (*models.Order, error) {
	return MarkOrderDelivered(orderID)
}

func (Store) SetOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	return UpdateOrderStatus(orderID, status)
}

func (Store) PlaceOrder(o *models.Order) (*models.Order, *models.Job, error) {
	return CreateOrderWithJob(o)
}

func (Store) OrderDetails(orderID string) (*models.OrderDetails, error) {
	return GetOrderDetails(orderID)
}

func (Store) OrdersForExport() ([]models.OrderExportRow, error) { return GetOrdersForExport() }

func (Store) GetLot(lotID string) (*models.Lot, error) { return GetLotByID(lotID) }
func (Store) SetLotStatus(lotID string, status models.LotStatus) (*models.Lot, error) {
	return UpdateLotStatus(lotID, status)
}

func (Store) CreatePod(p *models.Pod) error { return InsertPod(p) }
func (Store) GetPod(jobID string, role models.PodRole) (*models.Pod, error) {
	return GetPodByJobAndRole(jobID, role)
}
func (Store) MarkPodUsed(podID string) error    { return MarkPodUsed(podID) }
func (Store) DeletePods(jobID string) error     { return DeletePodsByJob(jobID) }
func (Store) User(userID string) (*models.User, error)          { return GetUserByID(userID) }
func (Store) Address(addressID string) (*models.Address, error) { return GetAddressByID(addressID) }
