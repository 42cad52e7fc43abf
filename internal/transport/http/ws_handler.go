package http

import (
	"encoding/json"
	"log"
	"net/http"

	"assessment-service/internal/app"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler drives the assessment wizard over a websocket: the client answers
// questions page by page and the server enforces the page gating.
type WSHandler struct {
	service  *app.AssessmentService
	sessions app.WizardSessionStore
	identity Identity
	pageSize int
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AssessmentService, sessions app.WizardSessionStore, identity Identity, pageSize int) *WSHandler {
	return &WSHandler{
		service:  service,
		sessions: sessions,
		identity: identity,
		pageSize: pageSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and walks the wizard session until the client
// disconnects or finishes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.identity.Resolve(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := h.sessions.GetOrCreate(sessionID, principal, h.pageSize)

	// Fresh sessions load the catalog before the first page shows.
	view := session.View()
	if view.State == app.WizardLoadingCatalog {
		catalog, err := h.service.Catalog(r.Context())
		if err != nil {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			return
		}
		view = session.Begin(catalog.Questions)
	}

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "page", Payload: view}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			send <- outboundMessage[any]{Type: "page", Payload: session.SetAnswer(payload.QuestionID, payload.Value)}
		case "next":
			send <- outboundMessage[any]{Type: "page", Payload: session.Next()}
		case "prev":
			send <- outboundMessage[any]{Type: "page", Payload: session.Prev()}
		case "submit":
			answers, ok := session.StartSubmit()
			if !ok {
				send <- outboundMessage[any]{Type: "page", Payload: session.View()}
				continue
			}
			receipt, err := h.service.Submit(r.Context(), principal, app.SubmitRequest{Answers: answers})
			view := session.FinishSubmit(receipt, err)
			send <- outboundMessage[any]{Type: "page", Payload: view}
			if view.State == app.WizardDone {
				h.sessions.Delete(sessionID)
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}
