package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/datashield-dev/datashield/internal/policy"
	"github.com/datashield-dev/datashield/internal/types"
	"github.com/datashield-dev/datashield/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AuditEvent describes one subject access or erasure, delivered to
// connected admin/dpo clients as it happens.
type AuditEvent struct {
	Action      string    `json:"action"` // "sar_access", "sar_erase"
	SubjectID   uint      `json:"subject_id"`
	RequesterID uint      `json:"requester_id"`
	Role        string    `json:"role"`
	Outcome     string    `json:"outcome"` // "ok", "forbidden"
	Timestamp   time.Time `json:"timestamp"`
}

var (
	auditClients   = make(map[*websocket.Conn]bool)
	auditClientsMu sync.RWMutex
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// BroadcastAuditEvent fans an event out to every connected audit client.
// Delivery is best effort; a failed connection is dropped, never retried.
func BroadcastAuditEvent(event AuditEvent) {
	event.Timestamp = time.Now().UTC()

	auditClientsMu.RLock()

	if len(auditClients) == 0 {
		auditClientsMu.RUnlock()
		return
	}

	clients := make([]*websocket.Conn, 0, len(auditClients))

	for conn := range auditClients {
		clients = append(clients, conn)
	}

	auditClientsMu.RUnlock()

	for _, conn := range clients {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for audit broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			log.Printf("Failed to broadcast audit event: %v", err)

			auditClientsMu.Lock()
			delete(auditClients, conn)
			auditClientsMu.Unlock()

			conn.Close()
		}
	}
}

// AuditStream upgrades the connection to a WebSocket feed of SAR activity.
// Restricted to admin and dpo; regular users have no business watching
// other subjects' requests.
func AuditStream(c *gin.Context) {
	currentUser, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role != policy.RoleAdmin && currentUser.Role != policy.RoleDPO {
		c.JSON(http.StatusForbidden, gin.H{"error": "Audit stream requires admin or dpo role"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)

	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}

	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	auditClientsMu.Lock()
	auditClients[conn] = true
	auditClientsMu.Unlock()

	defer func() {
		auditClientsMu.Lock()
		delete(auditClients, conn)
		auditClientsMu.Unlock()
		conn.Close()

		log.Printf("Audit stream closed for user %d", currentUser.ID)
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Audit stream error for user %d: %v", currentUser.ID, err)
			}
			break
		}
	}
}
