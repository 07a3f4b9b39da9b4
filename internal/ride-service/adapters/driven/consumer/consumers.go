package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"rideway/internal/mylogger"
	messagebrokerdto "rideway/internal/ride-service/core/domain/message_broker_dto"
	websocketdto "rideway/internal/ride-service/core/domain/websocket_dto"
	"rideway/internal/ride-service/core/myerrors"
	"rideway/internal/ride-service/core/ports"

	"github.com/rabbitmq/amqp091-go"
)

const (
	// routing key
	driverLocation = "driver.location"

	// websocket type
	driverLocationUpdate = "driver_location_update"
)

// Notification consumes driver location updates published by the fleet
// service and forwards each one to the rider of that driver's active ride.
type Notification struct {
	ctx         context.Context
	mylog       mylogger.Logger
	dispatcher  ports.INotifyWebsocket
	consumer    ports.IBrokerConsumer
	rideService ports.IRidesService
}

func New(
	ctx context.Context,
	mylog mylogger.Logger,
	dispatcher ports.INotifyWebsocket,
	consumer ports.IBrokerConsumer,
	rideService ports.IRidesService,
) *Notification {
	return &Notification{
		ctx:         ctx,
		mylog:       mylog,
		dispatcher:  dispatcher,
		consumer:    consumer,
		rideService: rideService,
	}
}

func (n *Notification) Run() error {
	chLocation, err := n.consumer.Consume(n.ctx, driverLocation)
	if err != nil {
		return err
	}

	go n.work(n.ctx, chLocation, n.LocationUpdate)

	return nil
}

func (n *Notification) work(
	ctx context.Context,
	ch <-chan amqp091.Delivery,
	Do func(msg amqp091.Delivery) error,
) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if err := Do(msg); err != nil {
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (n *Notification) LocationUpdate(msg amqp091.Delivery) error {
	log := n.mylog.Action("LocationUpdate")

	m := messagebrokerdto.DriverLocation{}
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		log.Error("cannot unmarshal driver location", err)
		return err
	}

	riderId, rideId, err := n.rideService.RouteDriverLocation(m.DriverProfileId)
	if err != nil {
		// A driver with no active ride is routine, not a failure.
		if errors.Is(err, myerrors.ErrNoActiveRide) {
			return nil
		}
		log.Error("cannot route driver location", err, "driver_profile_id", m.DriverProfileId)
		return err
	}

	data, err := json.Marshal(websocketdto.DriverLocationUpdateDto{
		RideID:    rideId,
		DriverId:  m.DriverProfileId,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
	})
	if err != nil {
		return err
	}

	n.dispatcher.NotifyRider(riderId, websocketdto.Event{
		Type: driverLocationUpdate,
		Data: data,
	})
	return nil
}
