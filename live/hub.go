package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Имена событий, которые ядро рассылает наблюдателям турнира.
const (
	EventTimerStarted             = "TIMER_STARTED"
	EventTimerPaused              = "TIMER_PAUSED"
	EventTimerResumed             = "TIMER_RESUMED"
	EventTimerReset               = "TIMER_RESET"
	EventTimerAutoResumeCountdown = "TIMER_AUTO_RESUME_SCHEDULED"
	EventBustRecorded             = "BUST_RECORDED"
	EventBustCancelled            = "BUST_CANCELLED"
	EventRebuyApplied             = "REBUY_APPLIED"
	EventRebuyCancelled           = "REBUY_CANCELLED"
	EventEliminationRecorded      = "ELIMINATION_RECORDED"
	EventEliminationCancelled     = "ELIMINATION_CANCELLED"
	EventSeasonRecalculated       = "SEASON_RECALCULATED"
)

// Event — сообщение, уходящее всем подключённым клиентам комнаты турнира.
type Event struct {
	Type         string      `json:"type"`
	TournamentID int         `json:"tournament_id"`
	Payload      interface{} `json:"payload,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	room   string
	closed bool
	mu     sync.Mutex
}

// Hub держит комнаты наблюдателей, по одной на турнир. Рассылка — строго
// fire-and-forget: медленный или отвалившийся клиент пропускает сообщение,
// но никогда не блокирует и не роняет вызвавшую мутацию.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Info("ws client joined", slog.String("room", client.room), slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, okClient := clients[client]; okClient {
					client.mu.Lock()
					if !client.closed {
						close(client.send)
						client.closed = true
					}
					client.mu.Unlock()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func roomID(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}

// BroadcastToTournament отправляет событие всем наблюдателям турнира.
// Ошибки сериализации и переполненные клиентские буферы только логируются.
func (h *Hub) BroadcastToTournament(tournamentID int, eventType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID(tournamentID)]
	if !ok {
		return
	}

	message, err := json.Marshal(Event{Type: eventType, TournamentID: tournamentID, Payload: payload})
	if err != nil {
		h.logger.Error("ws marshal failed", slog.String("event", eventType), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- message:
		default:
			// Буфер клиента полон: сообщение пропускается, отключение
			// решит read/write pump.
		}
		client.mu.Unlock()
	}
}

// NewClient регистрирует websocket-соединение в комнате турнира и запускает
// его read/write насосы.
func (h *Hub) NewClient(conn *websocket.Conn, tournamentID int) *Client {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		room: roomID(tournamentID),
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
	return client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		// Входящие сообщения игнорируются: канал односторонний.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
