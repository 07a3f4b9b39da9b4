package ports

import websocketdto "rideway/internal/ride-service/core/domain/websocket_dto"

type INotifyWebsocket interface {
	NotifyRider(riderId string, event websocketdto.Event)
}
