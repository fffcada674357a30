package domain

import (
	"github.com/cuongbtq/skillbridge/internal/activity"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventMessage is a decoded delivery handed from the dispatcher to the pool
type EventMessage struct {
	Event    *activity.Event
	Delivery amqp.Delivery
}
