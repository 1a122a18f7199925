package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/metrics"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin checks belong to the fronting proxy
	},
}

const (
	writeTimeout = 5 * time.Second

	// sendBuffer bounds how far a client may fall behind before it is
	// dropped. Publish never blocks on a slow socket.
	sendBuffer = 64
)

var _ publisher.EventPublisher = (*Hub)(nil)

// client is one dashboard connection with its own send queue; a dedicated
// writer goroutine drains the queue so socket backpressure stays local to
// the connection.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans core events out to dashboard WebSocket clients, grouped by
// tenant so one organization never sees another's fleet.
type Hub struct {
	collector *metrics.Collector

	mu      sync.Mutex
	tenants map[string]map[*client]struct{}
}

func NewHub(collector *metrics.Collector) *Hub {
	return &Hub{
		collector: collector,
		tenants:   make(map[string]map[*client]struct{}),
	}
}

func (h *Hub) Register(r *gin.RouterGroup) {
	r.GET("/ws/:tenant_id", h.HandleConnection)
}

func (h *Hub) HandleConnection(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(tenantID, cl)
	go h.writeLoop(tenantID, cl)
	go h.readLoop(tenantID, cl)
}

// Publish enqueues the event for every client subscribed to its tenant.
// Clients whose queue is full are dropped; the caller never waits on a
// socket write.
func (h *Hub) Publish(_ context.Context, e *domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var stalled []*client
	for cl := range h.tenants[e.TenantID] {
		select {
		case cl.send <- payload:
		default:
			stalled = append(stalled, cl)
		}
	}
	for _, cl := range stalled {
		h.dropLocked(e.TenantID, cl)
	}
	return nil
}

// writeLoop drains the client's queue onto the socket. It exits when the
// queue is closed by a drop or when a write fails.
func (h *Hub) writeLoop(tenantID string, cl *client) {
	defer func() { _ = cl.conn.Close() }()

	for payload := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(tenantID, cl)
			return
		}
	}
}

// readLoop drains client frames to keep the connection's control handling
// alive; dashboards never send application data.
func (h *Hub) readLoop(tenantID string, cl *client) {
	defer h.drop(tenantID, cl)

	cl.conn.SetPingHandler(func(string) error {
		return cl.conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(time.Second))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}
	}
}

func (h *Hub) add(tenantID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tenants[tenantID] == nil {
		h.tenants[tenantID] = make(map[*client]struct{})
	}
	h.tenants[tenantID][cl] = struct{}{}
	h.collector.AddDashboardClients(1)
}

func (h *Hub) drop(tenantID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(tenantID, cl)
}

// dropLocked unregisters the client and closes its queue, which stops the
// writer and closes the socket. Sends and close both happen under h.mu, so
// a concurrent Publish can never hit a closed queue.
func (h *Hub) dropLocked(tenantID string, cl *client) {
	clients, ok := h.tenants[tenantID]
	if !ok {
		return
	}
	if _, present := clients[cl]; !present {
		return
	}
	delete(clients, cl)
	if len(clients) == 0 {
		delete(h.tenants, tenantID)
	}
	close(cl.send)
	h.collector.AddDashboardClients(-1)
}
