package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/types"
	"github.com/proposalhub-dev/proposalhub/internal/utils"
)

// adminChannel receives every proposal event; per-user channels receive only
// events for proposals the user owns.
const adminChannel = "admins"

var (
	eventClients   = make(map[string]map[*websocket.Conn]bool)
	eventClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastProposalEvent notifies the proposal's owner and all connected
// admins that a proposal changed.
func BroadcastProposalEvent(ownerID uint, event string, proposalID uint) {
	message := map[string]string{
		"type":        "proposal",
		"event":       event,
		"proposal_id": strconv.FormatUint(uint64(proposalID), 10),
	}

	broadcast(userChannel(ownerID), message)
	broadcast(adminChannel, message)
}

func userChannel(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}

func broadcast(channel string, message map[string]string) {
	eventClientsMu.RLock()
	clients, exists := eventClients[channel]
	if !exists || len(clients) == 0 {
		eventClientsMu.RUnlock()
		return
	}

	// Copy the client set so the lock is not held while writing
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	eventClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(message); err != nil {
			log.Printf("Failed to broadcast event to client: %v", err)
			removeClient(channel, conn)
			conn.Close()
		}
	}
}

func addClient(channel string, conn *websocket.Conn) {
	eventClientsMu.Lock()
	if eventClients[channel] == nil {
		eventClients[channel] = make(map[*websocket.Conn]bool)
	}
	eventClients[channel][conn] = true
	eventClientsMu.Unlock()
}

func removeClient(channel string, conn *websocket.Conn) {
	eventClientsMu.Lock()
	if clients, exists := eventClients[channel]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(eventClients, channel)
		}
	}
	eventClientsMu.Unlock()
}

// pingLoop sends periodic pings until the connection's read loop signals done,
// so closed connections do not strand the ping goroutine.
func pingLoop(conn *websocket.Conn, channel string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for %s: %v", channel, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for %s: %v", channel, err)
				return
			}
		}
	}
}

// WebSocket upgrades the connection and subscribes the authenticated user to
// their event channel; admins subscribe to the shared admin channel.
func WebSocket(c *gin.Context) {
	currentUser, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	channel := userChannel(currentUser.ID)
	if currentUser.Role == models.RoleAdmin {
		channel = adminChannel
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

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	addClient(channel, conn)

	defer func() {
		removeClient(channel, conn)
		conn.Close()
		log.Printf("WebSocket connection closed for %s", channel)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	done := make(chan struct{})
	defer close(done)

	go pingLoop(conn, channel, done)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for %s: %v", channel, err)
			break
		}

		messageType, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for %s: %v", channel, err)
			}
			break
		}

		if messageType == websocket.CloseMessage {
			break
		}
	}
}
