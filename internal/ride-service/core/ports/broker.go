package ports

import (
	"context"

	messagebrokerdto "rideway/internal/ride-service/core/domain/message_broker_dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IRidesBroker interface {
	PushRideRequest(ctx context.Context, message messagebrokerdto.RideRequest) error
	PushRideStatus(ctx context.Context, message messagebrokerdto.RideStatus) error
	IsAlive() bool
	Close() error
}

type IBrokerConsumer interface {
	Consume(ctx context.Context, routingKey string) (<-chan amqp.Delivery, error)
}
