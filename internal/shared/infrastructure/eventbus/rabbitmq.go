package eventbus

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpSession is one connection with one channel and its declared topic
// exchange.
type amqpSession struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func dialSession(url, exchange string) (*amqpSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	// durable, not auto-deleted, not internal
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &amqpSession{conn: conn, channel: ch, exchange: exchange}, nil
}

func (s *amqpSession) check() error {
	switch {
	case s.conn == nil || s.conn.IsClosed():
		return errors.New("rabbitmq connection closed")
	case s.channel == nil || s.channel.IsClosed():
		return errors.New("rabbitmq channel closed")
	}
	return nil
}

// close closes the channel before the connection; the connection error wins.
func (s *amqpSession) close() error {
	var chErr error
	if s.channel != nil && !s.channel.IsClosed() {
		chErr = s.channel.Close()
	}
	if s.conn != nil && !s.conn.IsClosed() {
		if err := s.conn.Close(); err != nil {
			return err
		}
	}
	return chErr
}
