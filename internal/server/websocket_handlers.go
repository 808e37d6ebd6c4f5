package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"cheapbite/internal/middleware"
	"cheapbite/internal/models"
	"cheapbite/internal/notifications"
	"cheapbite/internal/observability"
	"cheapbite/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles WebSocket connections for real-time notifications.
// The socket is receive-only: the server pushes notification payloads fanned
// out through Redis, and incoming frames are ignored.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		observability.WebSocketConnectionsTotal.Inc()
		defer observability.WebSocketConnectionsTotal.Dec()

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		observability.WebSocketEventsTotal.WithLabelValues("notification_connect").Inc()

		welcome, _ := json.Marshal(fiber.Map{"type": "connected", "user_id": userID})
		client.TrySend(welcome)

		go client.WritePump()

		// Read pump runs in the handler goroutine and unregisters on exit.
		client.ReadPump()
	})
}

// WebSocketChatHandler handles WebSocket connections for real-time direct
// messages. Each connection is bound to a single thread, identified by the
// peer_id query parameter, for its whole lifetime.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		observability.WebSocketConnectionsTotal.Inc()
		defer observability.WebSocketConnectionsTotal.Dec()

		ctx := context.Background()

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket Chat: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		peerID64, err := strconv.ParseUint(conn.Query("peer_id"), 10, 32)
		if err != nil || peerID64 == 0 || uint(peerID64) == userID {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid peer_id"}`))
			_ = conn.Close()
			return
		}
		peerID := uint(peerID64)

		if _, err := s.userRepo.GetByID(ctx, peerID); err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"peer not found"}`))
			_ = conn.Close()
			return
		}

		if s.threadHub == nil {
			_ = conn.Close()
			return
		}

		threadID := models.ThreadID(userID, peerID)
		client, err := s.threadHub.Register(threadID, userID, conn)
		if err != nil {
			log.Printf("WebSocket Chat: Failed to register user %d on thread %s: %v", userID, threadID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		observability.WebSocketEventsTotal.WithLabelValues("chat_connect").Inc()

		client.IncomingHandler = func(c *notifications.Client, raw []byte) {
			var incoming struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}
			if err := json.Unmarshal(raw, &incoming); err != nil {
				log.Printf("WebSocket Chat: Invalid message format from user %d", userID)
				return
			}

			switch incoming.Type {
			case "message":
				if incoming.Text == "" {
					return
				}

				// Same limit as the HTTP send endpoint.
				id := fmt.Sprintf("user:%d", userID)
				allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "send_message", id, 30, time.Minute)
				if !allowed {
					errMsg, _ := json.Marshal(fiber.Map{
						"type":  "error",
						"error": "Rate limit exceeded. Please wait a moment.",
					})
					c.TrySend(errMsg)
					return
				}

				// Delivery to both sides happens through the thread channel
				// the service publishes to.
				if _, err := s.convService.SendMessage(ctx, service.SendMessageInput{
					SenderID: userID,
					PeerID:   peerID,
					Text:     incoming.Text,
				}); err != nil {
					errMsg, _ := json.Marshal(fiber.Map{"type": "error", "error": err.Error()})
					c.TrySend(errMsg)
					return
				}
				observability.WebSocketEventsTotal.WithLabelValues("chat_message").Inc()

			case "read":
				if err := s.convService.MarkThreadRead(ctx, userID, peerID); err != nil {
					log.Printf("WebSocket Chat: mark thread read error: %v", err)
				}
			}
		}

		welcome, _ := json.Marshal(fiber.Map{
			"type":      "connected",
			"user_id":   userID,
			"thread_id": threadID,
		})
		client.TrySend(welcome)

		go client.WritePump()

		client.ReadPump()
	})
}
