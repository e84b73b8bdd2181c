package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

type AMQPOptions struct {
	URL        string
	Exchange   string // 为空时走默认 exchange，RoutingKey 即队列名
	RoutingKey string
	Queue      string // 非空时启动时声明持久化队列
}

type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher amqp.Channel 不能被多个 goroutine 同时使用，发布时加锁
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	key      string
}

func NewAMQP(o AMQPOptions) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(o.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp: connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: open channel: %w", err)
	}
	if o.Queue != "" {
		if _, err := ch.QueueDeclare(o.Queue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("amqp: declare queue %s: %w", o.Queue, err)
		}
	}
	p := newAMQPPublisher(ch, o.Exchange, o.RoutingKey)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange, key string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange, key: key}
}

func (p *AMQPPublisher) Publish(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return errors.New("amqp: channel is closed")
	}
	err := p.ch.Publish(p.exchange, p.key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}
