package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"openshelf/library-management/internal/api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("notify")

// Message is the wire format pushed to websocket subscribers.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Client is one user's websocket subscription.
type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub routes notifications to connected users and persists them for users
// who are offline. It implements the loan service's Notifier.
type Hub struct {
	clients    map[int64]*Client
	register   chan *Client
	unregister chan *Client
	notifRepo  repository.NotificationRepository
	jwtSecret  []byte
	upgrader   websocket.Upgrader
	mu         sync.Mutex
}

// NewHub creates a new Hub.
func NewHub(notifRepo repository.NotificationRepository, jwtSecret string) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notifRepo:  notifRepo,
		jwtSecret:  []byte(jwtSecret),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run processes subscription changes until ctx is cancelled. One client per
// user; a newer connection replaces the old one.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.UserID]; ok {
				close(old.Send)
			}
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// Notify persists the message and pushes it to the user's live connection
// when one exists. Delivery is best-effort.
func (h *Hub) Notify(ctx context.Context, userID int64, message string) {
	ctx, span := tracer.Start(ctx, "hub.Notify", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	if err := h.notifRepo.Create(ctx, userID, message); err != nil {
		slog.ErrorContext(ctx, "failed to persist notification", "user.id", userID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist notification")
	}

	data, err := json.Marshal(Message{Type: "notification", Message: message})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[userID]
	if !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		close(client.Send)
		delete(h.clients, userID)
	}
}

// HandleWS upgrades the connection, identifies the subscriber from the token
// query parameter and replays their unread notifications.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "hub.HandleWS", trace.WithAttributes(
		attribute.String("http.url", r.URL.Path),
	))
	defer span.End()

	userID, err := h.userIDFromToken(r.URL.Query().Get("token"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid token")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int64("user.id", userID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	client := &Client{UserID: userID, Conn: conn, Send: make(chan []byte, 16)}
	h.register <- client

	go h.writePump(client)
	go h.readPump(client)

	h.replayUnread(context.WithoutCancel(ctx), client)
}

// replayUnread queues the user's stored notifications and marks them
// delivered.
func (h *Hub) replayUnread(ctx context.Context, client *Client) {
	notifs, err := h.notifRepo.ListUnread(ctx, client.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load unread notifications", "user.id", client.UserID, "error", err)
		return
	}
	if len(notifs) == 0 {
		return
	}

	// Send is only ever closed under h.mu (eviction in Notify, replacement in
	// Run). Holding the lock across the sends and confirming the client still
	// owns its slot keeps the replay off a closed channel.
	ids := make([]int64, 0, len(notifs))
	h.mu.Lock()
queue:
	for _, n := range notifs {
		if h.clients[client.UserID] != client {
			break
		}
		data, err := json.Marshal(Message{Type: "notification", Message: n.Message})
		if err != nil {
			continue
		}
		select {
		case client.Send <- data:
			ids = append(ids, n.ID)
		default:
			// Send buffer full; the rest stay unread for the next connect.
			break queue
		}
	}
	h.mu.Unlock()
	if err := h.notifRepo.MarkRead(ctx, ids); err != nil {
		slog.ErrorContext(ctx, "failed to mark notifications read", "user.id", client.UserID, "error", err)
	}
}

// writePump pumps queued messages to the websocket connection.
func (h *Hub) writePump(client *Client) {
	defer client.Conn.Close()
	for data := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// readPump drains the connection; subscribers never send meaningful data,
// but reading is required to notice disconnects.
func (h *Hub) readPump(client *Client) {
	defer func() {
		client.Conn.Close()
		h.unregister <- client
	}()
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) userIDFromToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return int64(sub), nil
}
