package notify

import (
	"encoding/json"

	"github.com/labstack/gommon/log"
)

// 商品削除イベント。履歴は持たない（後から繋いだ購読者には届かない）
type Event struct {
	Type      string `json:"type"`
	ProductID int64  `json:"product_id"`
}

const EventProductDeleted = "product_deleted"

// Hub は接続中の購読者へイベントをファンアウトする。
// 登録・解除・配送はすべてRunの1本のゴルーチンで捌く。
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			log.Infof("subscriber %s connected (%d total)", c.id, len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Infof("subscriber %s disconnected (%d total)", c.id, len(h.clients))
			}

		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Errorf("marshal event: %v", err)
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					//詰まった購読者は切る。配送はat-most-once
					delete(h.clients, c)
					close(c.send)
					log.Warnf("subscriber %s too slow, dropped", c.id)
				}
			}
		}
	}
}

// NotifyProductDeleted は投げっぱなしの通知。呼び出し側をブロックしない。
func (h *Hub) NotifyProductDeleted(productID int64) {
	ev := Event{Type: EventProductDeleted, ProductID: productID}
	select {
	case h.broadcast <- ev:
	default:
		log.Warnf("broadcast buffer full, event for product %d dropped", productID)
	}
}
