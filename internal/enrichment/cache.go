// Пакет enrichment дополняет джобы из пула справочными данными
// (адреса, получатель, лот) для карточек курьера.
package enrichment

import "sync"

// Kind - тип справочной записи в кэше.
type Kind string

const (
	KindAddress Kind = "address"
	KindUser    Kind = "user"
	KindLot     Kind = "lot"
	KindOrder   Kind = "order"
)

// Cache - кэш справочных данных на время сессии просмотра пула.
// Кэшируются только удачные ответы: за отсутствующей записью при
// следующем обращении снова идём в хранилище.
type Cache struct {
	mu      sync.RWMutex
	entries map[Kind]map[string]interface{}
}

// NewCache создает новый экземпляр Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Kind]map[string]interface{})}
}

// Get возвращает запись кэша и признак попадания.
func (c *Cache) Get(kind Kind, id string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[kind][id]
	return v, ok
}

// Put сохраняет запись в кэш.
func (c *Cache) Put(kind Kind, id string, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[kind] == nil {
		c.entries[kind] = make(map[string]interface{})
	}
	c.entries[kind][id] = v
}

// GetOrFetch отдаёт запись из кэша либо загружает её через fetch.
// Ошибки и nil-результаты не кэшируются.
func (c *Cache) GetOrFetch(kind Kind, id string, fetch func(string) (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(kind, id); ok {
		return v, nil
	}
	v, err := fetch(id)
	if err != nil || v == nil {
		return nil, err
	}
	c.Put(kind, id, v)
	return v, nil
}
