package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/delivery/http/middleware"
	"findmyclinic/internal/domain/entity"
	"findmyclinic/internal/service"
	"findmyclinic/internal/usecase"
)

const (
	subscribeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
	pingInterval     = 30 * time.Second
)

// subscribeMessage is the first frame a client sends after connecting.
// Anonymous clients list their stored token refs; authenticated clients
// send an empty frame and are identified by their bearer token.
type subscribeMessage struct {
	TokenRefs []dto.TokenRefRequest `json:"token_refs"`
}

// QueueFeedHandler streams live queue status over a WebSocket. Every
// queue-change event triggers a full status re-query for the subscriber;
// events carry no row data, only the hint that something changed.
type QueueFeedHandler struct {
	log           *logrus.Logger
	events        *service.QueueEventsService
	statusUsecase usecase.QueueStatusUsecase
	upgrader      websocket.Upgrader
}

func NewQueueFeedHandler(log *logrus.Logger, events *service.QueueEventsService, statusUsecase usecase.QueueStatusUsecase) *QueueFeedHandler {
	return &QueueFeedHandler{
		log:           log,
		events:        events,
		statusUsecase: statusUsecase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *QueueFeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("Failed to upgrade queue feed connection: %+v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(subscribeTimeout))
	var sub subscribeMessage
	if err := conn.ReadJSON(&sub); err != nil {
		h.log.Debugf("Queue feed closed before subscribing: %+v", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	var actor entity.Actor
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		actor = entity.AuthenticatedActor(userID)
	} else {
		actor = entity.AnonymousActor(converter.TokenRefsFromRequests(sub.TokenRefs))
	}

	events, closeSub := h.events.Subscribe(r.Context())
	defer closeSub()

	// Read pump: the client never sends after subscribing, but reading is
	// the only way to notice it went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.push(conn, actor, r); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			if err := h.push(conn, actor, r); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *QueueFeedHandler) push(conn *websocket.Conn, actor entity.Actor, r *http.Request) error {
	status, err := h.statusUsecase.GetStatus(r.Context(), actor)
	if err != nil {
		// Keep the feed alive; the next event retries the query.
		h.log.Warnf("Failed to load queue status for feed: %+v", err)
		return nil
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(status)
}
