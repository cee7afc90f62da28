package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/models"
)

// Client is one connected admin dashboard.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// ResultEvent is pushed to admin dashboards when an attempt is recorded.
type ResultEvent struct {
	ResultID       string `json:"result_id"`
	QuizID         string `json:"quiz_id"`
	UserID         string `json:"user_id"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	AttemptNumber  int    `json:"attempt_number"`
	CompletedAt    string `json:"completed_at"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.Result, 16)

// NotifyResult queues a recorded result for fan-out without blocking the
// submit path.
func NotifyResult(result *models.Result) {
	select {
	case Broadcast <- result:
	default:
		log.Println("Result feed backlog full, dropping event")
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Dashboard client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Dashboard client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case result := <-Broadcast:
			event := ResultEvent{
				ResultID:       result.ID.String(),
				QuizID:         result.QuizID.String(),
				UserID:         result.UserID.String(),
				Score:          result.Score,
				TotalQuestions: result.TotalQuestions,
				AttemptNumber:  result.AttemptNumber,
				CompletedAt:    result.CompletedAt.Format("2006-01-02 15:04:05"),
			}

			var stale []uuid.UUID
			clientsMu.RLock()
			for id, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending result event to client %s: %v", id, err)
					conn.Close()
					stale = append(stale, id)
				}
			}
			clientsMu.RUnlock()

			if len(stale) > 0 {
				clientsMu.Lock()
				for _, id := range stale {
					delete(clients, id)
				}
				clientsMu.Unlock()
			}
		}
	}
}
