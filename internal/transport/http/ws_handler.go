package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"timed-quiz/internal/app"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
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

type valuePayload struct {
	Value string `json:"value"`
}

type categoryPayload struct {
	Category string `json:"category"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Option     string `json:"option"`
}

type jumpPayload struct {
	Index int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var errBadPayload = errors.New("invalid payload")

// ServeWS upgrades the request and binds the connection to a fresh quiz
// machine for clientId. Every state change is pushed as a snapshot.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		http.Error(w, "missing clientId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	machine, err := h.service.Open(r.Context(), clientID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.release(clientID, machine)

	updates, cancel := machine.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					// machine replaced by another connection for the same client
					_ = conn.Close()
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "snapshot", Payload: snap}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if inbound.Type == "export" {
			report, err := h.service.Finish(r.Context(), machine)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "report", Payload: report}
			continue
		}
		if err := dispatch(machine, inbound); err != nil {
			send <- errorMessage(err)
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// release drops the machine unless a newer connection already replaced it.
func (h *WSHandler) release(clientID string, machine *app.Machine) {
	if current, ok := h.service.Get(clientID); ok && current == machine {
		h.service.Close(clientID)
		return
	}
	machine.Close()
}

// dispatch applies one inbound intent to the machine.
func dispatch(m *app.Machine, in inboundMessage) error {
	switch in.Type {
	case "name":
		var p valuePayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return m.SetName(p.Value)
	case "phone":
		var p valuePayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return m.SetPhone(p.Value)
	case "confirm":
		return m.ConfirmIntake()
	case "toggleCategory":
		var p categoryPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return m.ToggleCategory(p.Category)
	case "start":
		return m.Start()
	case "answer":
		var p answerPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return m.SelectAnswer(p.QuestionID, p.Option)
	case "next":
		return m.Next()
	case "prev":
		return m.Prev()
	case "jump":
		var p jumpPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return m.Jump(p.Index)
	case "submit":
		return m.Submit()
	case "retry":
		return m.Retry()
	default:
		return errors.New("unsupported message type")
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errBadPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
