package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	ledger *services.Ledger
	hub    *WebSocketHub
	log    zerolog.Logger
}

type WebSocketHub struct {
	mu         sync.Mutex
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	log        zerolog.Logger
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
}

type Message struct {
	Type   string      `json:"type"`
	UserID string      `json:"user_id,omitempty"`
	Data   interface{} `json:"data"`
}

func NewWebSocketHandler(ledger *services.Ledger, log zerolog.Logger) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		log:        log,
	}

	go hub.run()

	return &WebSocketHandler{
		ledger: ledger,
		hub:    hub,
		log:    log,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to upgrade to websocket")
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug().Err(err).Str("user_id", userID).Msg("websocket closed")
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	case "REFRESH_BALANCE":
		h.sendBalance(client)
	}
}

func (h *WebSocketHandler) sendBalance(client *Client) {
	wallet, err := h.ledger.Balances(context.Background(), client.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", client.UserID).Msg("failed to load wallet for websocket")
		return
	}

	client.Conn.WriteJSON(balanceMessage(client.UserID, wallet))
}

func (h *WebSocketHandler) sendPong(client *Client) {
	client.Conn.WriteJSON(Message{
		Type: "PONG",
		Data: gin.H{"timestamp": time.Now().Unix()},
	})
}

func balanceMessage(userID string, wallet *models.Wallet) *Message {
	return &Message{
		Type:   "BALANCE_UPDATE",
		UserID: userID,
		Data: gin.H{
			"sol":  wallet.SolBalance,
			"dfyr": wallet.DfyrBalance,
		},
	}
}

// BroadcastBalance pushes a wallet snapshot to the owning client if one is
// connected. Satisfies services.Broadcaster.
func (h *WebSocketHandler) BroadcastBalance(userID string, wallet *models.Wallet) {
	select {
	case h.hub.broadcast <- balanceMessage(userID, wallet):
	default:
		h.log.Warn().Str("user_id", userID).Msg("websocket broadcast queue full, dropping update")
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.mu.Lock()
			hub.clients[client.UserID] = client.Conn
			hub.mu.Unlock()
			hub.log.Debug().Str("user_id", client.UserID).Msg("websocket client registered")

		case client := <-hub.unregister:
			hub.mu.Lock()
			if conn, ok := hub.clients[client.UserID]; ok && conn == client.Conn {
				delete(hub.clients, client.UserID)
			}
			hub.mu.Unlock()
			hub.log.Debug().Str("user_id", client.UserID).Msg("websocket client unregistered")

		case message := <-hub.broadcast:
			hub.mu.Lock()
			if message.UserID != "" {
				if conn, ok := hub.clients[message.UserID]; ok {
					conn.WriteJSON(message)
				}
			} else {
				for _, conn := range hub.clients {
					conn.WriteJSON(message)
				}
			}
			hub.mu.Unlock()
		}
	}
}
