package ws

import (
	"net/http"
	"sync"

	"rideway/internal/mylogger"
	websocketdto "rideway/internal/ride-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

// websocketUpgrader upgrades incoming HTTP requests into a persistent
// websocket connection.
var websocketUpgrader = websocket.Upgrader{
	// TODO: restrict CheckOrigin once the web client origin is fixed
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

// Dispatcher tracks connected rider clients and fans events out to them.
type Dispatcher struct {
	clients ClientList
	sync.RWMutex
	log mylogger.Logger
}

func NewDispatcher(log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		clients: make(ClientList),
		log:     log,
	}
}

// WsHandler upgrades the connection for the rider in the path and
// registers it for notifications.
func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsHandler")
		riderId := r.PathValue("rider_id")

		if riderId == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(r.Context(), conn, d, riderId)
		d.AddClient(client)
		log.Info("rider connected", "rider_id", riderId)

		go client.ReadMessage()
		go client.WriteMessage()
	}
}

// NotifyRider sends the event to every open connection of the rider.
func (d *Dispatcher) NotifyRider(riderId string, event websocketdto.Event) {
	d.RLock()
	defer d.RUnlock()

	for client := range d.clients {
		if client.riderId != riderId {
			continue
		}
		select {
		case client.egress <- event:
		default:
			// Slow consumer, drop the event rather than block the caller.
		}
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		client.conn.Close()
		delete(d.clients, client)
	}
}
