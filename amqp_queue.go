package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPClient keeps a confirming channel open to the broker, reconnecting in the
// background whenever the connection or channel drops.
type AMQPClient struct {
	m               *sync.Mutex
	queues          []string
	connection      *amqp.Connection
	channel         *amqp.Channel
	done            chan bool
	stopped         chan struct{}
	closed          bool
	notifyConnClose chan *amqp.Error
	notifyChanClose chan *amqp.Error
	notifyConfirm   chan amqp.Confirmation
	isReady         bool
}

const (
	reconnectDelay = 5 * time.Second
	reInitDelay    = 2 * time.Second
	resendDelay    = 2 * time.Second
)

// NewAMQPClient starts connecting to addr and declares queues once connected.
func NewAMQPClient(addr string, queues []string) *AMQPClient {
	client := AMQPClient{
		m:       &sync.Mutex{},
		queues:  queues,
		done:    make(chan bool),
		stopped: make(chan struct{}),
	}

	go client.handleReconnect(addr)
	return &client
}

func amqpLog(level logrus.Level, message string, err error) {
	logf := LoggingFormat{Type: LogType.Handoff, Level: level, Message: message, Error: err}
	logf.Print()
}

// Close stops the reconnect loop and shuts down the channel and connection
// if they are open.
func (client *AMQPClient) Close() error {
	client.m.Lock()
	defer client.m.Unlock()

	if client.closed {
		return fmt.Errorf("connection already closed")
	}
	client.closed = true
	close(client.done)

	if !client.isReady {
		return nil
	}
	client.isReady = false
	if err := client.channel.Close(); err != nil {
		return err
	}
	return client.connection.Close()
}

func (client *AMQPClient) handleReconnect(addr string) {
	defer close(client.stopped)
	for {
		client.m.Lock()
		client.isReady = false
		client.m.Unlock()

		amqpLog(logrus.InfoLevel, "attempting to connect", nil)
		conn, err := client.connect(addr)
		if err != nil {
			amqpLog(logrus.WarnLevel, "failed to connect, retrying", err)
			select {
			case <-client.done:
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}

		if done := client.handleReInit(conn); done {
			return
		}
	}
}

func (client *AMQPClient) connect(addr string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(addr)
	if err != nil {
		return nil, err
	}
	client.changeConnection(conn)
	amqpLog(logrus.InfoLevel, "connected", nil)
	return conn, nil
}

func (client *AMQPClient) handleReInit(conn *amqp.Connection) bool {
	for {
		client.m.Lock()
		client.isReady = false
		client.m.Unlock()

		err := client.init(conn)
		if err != nil {
			amqpLog(logrus.WarnLevel, "failed to initialize channel, retrying", err)
			select {
			case <-client.done:
				return true
			case <-client.notifyConnClose:
				amqpLog(logrus.WarnLevel, "connection closed, reconnecting", nil)
				return false
			case <-time.After(reInitDelay):
			}
			continue
		}

		select {
		case <-client.done:
			return true
		case <-client.notifyConnClose:
			amqpLog(logrus.WarnLevel, "connection closed, reconnecting", nil)
			return false
		case <-client.notifyChanClose:
			amqpLog(logrus.WarnLevel, "channel closed, re-initializing", nil)
		}
	}
}

// init opens a confirming channel and declares every queue as durable.
func (client *AMQPClient) init(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err := ch.Confirm(false); err != nil {
		return err
	}

	for _, queue := range client.queues {
		_, err := ch.QueueDeclare(
			queue,
			true,  // Durable
			false, // Delete when unused
			false, // Exclusive
			false, // No-wait
			nil,   // Arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", queue, err)
		}
	}

	client.changeChannel(ch)
	client.m.Lock()
	client.isReady = true
	client.m.Unlock()
	amqpLog(logrus.InfoLevel, "channel setup complete", nil)
	return nil
}

func (client *AMQPClient) changeConnection(conn *amqp.Connection) {
	client.m.Lock()
	defer client.m.Unlock()
	client.connection = conn
	client.notifyConnClose = make(chan *amqp.Error, 1)
	client.connection.NotifyClose(client.notifyConnClose)
}

func (client *AMQPClient) changeChannel(ch *amqp.Channel) {
	client.m.Lock()
	defer client.m.Unlock()
	client.channel = ch
	client.notifyChanClose = make(chan *amqp.Error, 1)
	client.notifyConfirm = make(chan amqp.Confirmation, 1)
	client.channel.NotifyClose(client.notifyChanClose)
	client.channel.NotifyPublish(client.notifyConfirm)
}

// Publish sends body to queueName and waits for the broker's confirmation,
// retrying until it is acked or ctx is done.
func (client *AMQPClient) Publish(ctx context.Context, queueName string, body []byte) error {
	for {
		client.m.Lock()
		ready := client.isReady && client.channel != nil
		confirms := client.notifyConfirm
		client.m.Unlock()

		if ready {
			if err := client.UnsafePublish(ctx, queueName, body); err == nil {
				select {
				case confirm := <-confirms:
					if confirm.Ack {
						return nil
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resendDelay):
		}
	}
}

// UnsafePublish publishes without waiting for a confirmation.
func (client *AMQPClient) UnsafePublish(ctx context.Context, queueName string, body []byte) error {
	client.m.Lock()
	defer client.m.Unlock()

	if client.channel == nil {
		return fmt.Errorf("not connected")
	}
	if !client.isReady {
		return fmt.Errorf("not ready")
	}

	publishCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return client.channel.PublishWithContext(
		publishCtx,
		"",        // Exchange
		queueName, // Routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
