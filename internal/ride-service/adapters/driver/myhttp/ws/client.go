package ws

import (
	"context"

	websocketdto "rideway/internal/ride-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

type Client struct {
	ctx     context.Context
	conn    *websocket.Conn
	dis     *Dispatcher
	egress  chan websocketdto.Event
	riderId string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, riderId string) *Client {
	return &Client{
		ctx:     ctx,
		conn:    conn,
		dis:     dis,
		egress:  make(chan websocketdto.Event, 16),
		riderId: riderId,
	}
}

// ReadMessage drains the connection; inbound payloads are ignored, the
// read loop exists to detect the close handshake.
func (c *Client) ReadMessage() {
	defer c.dis.RemoveClient(c)

	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.dis.log.Action("wsRead").Warn("unexpected close", "rider_id", c.riderId)
			}
			return
		}
	}
}

func (c *Client) WriteMessage() {
	defer c.dis.RemoveClient(c)

	for {
		select {
		case <-c.ctx.Done():
			return
		case event, ok := <-c.egress:
			if !ok {
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
