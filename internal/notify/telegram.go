// Пакет notify отправляет операторские уведомления в Telegram.
// Уведомления вспомогательные: их сбой никогда не влияет на операции.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/andresl123/food-rescue-live-sub000/internal/models"
)

// Notifier - обертка для Telegram Bot API с каналом операторов.
// Nil-приемник допустим: все методы тогда молча ничего не делают.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	Debug  bool
}

// NewNotifier инициализирует Telegram бота. Пустой токен выключает
// уведомления без ошибки: сервис работает и без бота.
func NewNotifier(token string, chatID int64, debug bool) (*Notifier, error) {
	if token == "" || chatID == 0 {
		log.Println("Telegram-уведомления выключены: токен или chat_id не заданы.")
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Telegram Bot API: %w", err)
	}
	api.Debug = debug
	log.Printf("Авторизован как аккаунт %s", api.Self.UserName)
	return &Notifier{api: api, chatID: chatID, Debug: debug}, nil
}

func (n *Notifier) send(text string) {
	if n == nil || n.api == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("Не удалось отправить уведомление в Telegram: %v", err)
	}
}

// JobPooled сообщает операторам о новом джобе в пуле.
func (n *Notifier) JobPooled(j *models.Job) {
	if j == nil {
		return
	}
	n.send(fmt.Sprintf("Новый джоб в пуле: %s (заказ %s).", j.ID, j.OrderID))
}

// JobAssigned сообщает о взятии джоба курьером.
func (n *Notifier) JobAssigned(j *models.Job) {
	if j == nil || j.CourierID == nil {
		return
	}
	n.send(fmt.Sprintf("Джоб %s взят курьером %s.", j.ID, *j.CourierID))
}

// DeliveryCompleted сообщает о завершённой доставке и предупреждениях
// каскада, если они были.
func (n *Notifier) DeliveryCompleted(j *models.Job, warnings []string) {
	if j == nil {
		return
	}
	text := fmt.Sprintf("Доставка по джобу %s завершена (заказ %s).", j.ID, j.OrderID)
	for _, w := range warnings {
		text += "\n⚠️ " + w
	}
	n.send(text)
}
