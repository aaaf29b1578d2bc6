package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fosdem/shadermgr/lib/stats"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

var statsInterval = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

// wsClient serialises writes; gorilla connections allow one writer.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) send(packet []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("could not set write deadline: %w", err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, packet)
}

type statsPacket struct {
	Event string `json:"event"`
	stats.Snapshot
}

// @Summary	Open websocket for stats and register/unregister/error events
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		a.log.Debug("couldn't make websocket", "err", err)
		return
	}
	client := &wsClient{conn: ws}
	done := make(chan struct{})
	defer func() {
		close(done)
		a.removeClient(client)
		if err := ws.Close(); err != nil {
			a.log.Debug("could not close websocket", "err", err)
		}
	}()
	a.addClient(client)

	go a.websocketWriter(client, done)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (a *Api) addClient(c *wsClient) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	a.wsClients[c] = true
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) removeClient(c *wsClient) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	delete(a.wsClients, c)
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) statsPacket() ([]byte, error) {
	return json.Marshal(statsPacket{Event: "stats", Snapshot: a.Stats.Snapshot()})
}

func (a *Api) websocketWriter(c *wsClient, done <-chan struct{}) {
	packet, err := a.statsPacket()
	if err != nil || c.send(packet) != nil {
		return
	}

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}
		packet, err := a.statsPacket()
		if err != nil {
			a.log.Warn("could not encode stats", "err", err)
			return
		}
		if err := c.send(packet); err != nil {
			return
		}
	}
}

func (a *Api) broadcast(event any) {
	packet, err := json.Marshal(event)
	if err != nil {
		a.log.Warn("could not encode event", "err", err)
		return
	}

	a.wsMutex.Lock()
	clients := make([]*wsClient, 0, len(a.wsClients))
	for c := range a.wsClients {
		clients = append(clients, c)
	}
	a.wsMutex.Unlock()

	for _, c := range clients {
		if err := c.send(packet); err != nil {
			a.log.Debug("dropping event for websocket client", "err", err)
		}
	}
}
