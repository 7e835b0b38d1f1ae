package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.pipeline"
	QueuePrefix  = "q.pipeline."
	DLQName      = "q.pipeline.dlq"
	DLXName      = "ex.pipeline.dlx" // Dead Letter Exchange
	RoutingKey   = "k.lead"
)

type RabbitMQ struct {
	Conn  *amqp.Connection
	Ch    *amqp.Channel
	Queue string
}

// NewRabbitMQ connects and declares the event topology. Every instance gets
// its own exclusive queue bound to the fanout exchange, so each one sees
// every lead event.
func NewRabbitMQ(dsn, instanceID string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	queueName := QueuePrefix + instanceID
	if err := setupTopology(ch, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch, Queue: queueName}, nil
}

func setupTopology(ch *amqp.Channel, queueName string) error {
	err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(DLQName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil)
	if err != nil {
		return err
	}

	err = ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil)
	if err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}

	// durable=false, autoDelete=true, exclusive=true: the queue lives as long as the instance.
	_, err = ch.QueueDeclare(queueName, false, true, true, false, args)
	if err != nil {
		return err
	}

	return ch.QueueBind(queueName, RoutingKey, ExchangeName, false, nil)
}

func (r *RabbitMQ) Close() {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}
