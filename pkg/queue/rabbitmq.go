package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"simple-forum/pkg/config"
	"simple-forum/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Purge tasks wait in PurgeDelayQueue until their per-message TTL runs out,
// then dead-letter through PurgeExchange into PurgeQueue where the worker
// consumes them.
const (
	PurgeExchange   = "forum.purge"
	PurgeDelayQueue = "forum.purge.delay"
	PurgeQueue      = "forum.purge.ready"
	purgeRoutingKey = "purge"
)

// PurgeTask asks the worker to hard-delete one post. MarkedBefore bounds the
// deletion marker the task was issued for.
type PurgeTask struct {
	Kind         string    `json:"kind"`
	ID           string    `json:"id"`
	MarkedBefore time.Time `json:"marked_before"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declarePurgeTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func declarePurgeTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		PurgeExchange, // name
		"direct",      // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		PurgeQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		PurgeQueue,      // queue name
		purgeRoutingKey, // routing key
		PurgeExchange,   // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	// Nothing consumes the delay queue; expired messages move on by dead-lettering.
	_, err = channel.QueueDeclare(
		PurgeDelayQueue,
		true,
		false,
		false,
		false,
		delayQueueArgs(),
	)
	if err != nil {
		return fmt.Errorf("failed to declare delay queue: %w", err)
	}
	return nil
}

// delayQueueArgs dead-letters expired delay messages into the purge exchange.
// Passive declares must pass the same table or the broker rejects them.
func delayQueueArgs() amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    PurgeExchange,
		"x-dead-letter-routing-key": purgeRoutingKey,
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// delayedPublishing builds the message for a task. A zero delay routes the
// task straight to the purge queue.
func delayedPublishing(task PurgeTask, delay time.Duration, now time.Time) (exchange, key string, msg amqp.Publishing, err error) {
	body, err := json.Marshal(task)
	if err != nil {
		return "", "", amqp.Publishing{}, fmt.Errorf("failed to marshal task: %w", err)
	}

	msg = amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	}
	if delay <= 0 {
		return PurgeExchange, purgeRoutingKey, msg, nil
	}
	msg.Expiration = strconv.FormatInt(delay.Milliseconds(), 10)
	return "", PurgeDelayQueue, msg, nil
}

// PublishPurgeTask schedules task to reach the purge queue after delay.
func (c *Client) PublishPurgeTask(ctx context.Context, task PurgeTask, delay time.Duration) error {
	exchange, key, msg, err := delayedPublishing(task, delay, time.Now())
	if err != nil {
		return err
	}

	if err := c.channel.PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish purge task for %s %s: %v", task.Kind, task.ID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Scheduled purge of %s %s in %s", task.Kind, task.ID, delay)
	return nil
}

func decodePurgeTask(body []byte) (PurgeTask, error) {
	var task PurgeTask
	if err := json.Unmarshal(body, &task); err != nil {
		return task, err
	}
	if task.Kind == "" || task.ID == "" {
		return task, fmt.Errorf("purge task is missing kind or id")
	}
	return task, nil
}

// ConsumePurgeTasks delivers purge tasks to handler until ctx is done. A
// failed task is retried once; after that the periodic sweep owns it.
func (c *Client) ConsumePurgeTasks(ctx context.Context, handler func(ctx context.Context, task PurgeTask) error) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		PurgeQueue, // queue
		"",         // consumer
		false,      // auto-ack (we'll manually ack after processing)
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from purge queue: %s", PurgeQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("[RABBITMQ] Purge queue delivery channel closed")
					return
				}

				task, err := decodePurgeTask(msg.Body)
				if err != nil {
					c.logger.Error("[RABBITMQ] Dropping malformed purge task: %v, body=%s", err, string(msg.Body))
					msg.Nack(false, false)
					continue
				}

				if err := handler(ctx, task); err != nil {
					c.logger.Error("[RABBITMQ] Purge of %s %s failed (redelivered=%t): %v", task.Kind, task.ID, msg.Redelivered, err)
					msg.Nack(false, !msg.Redelivered)
					continue
				}

				msg.Ack(false)
			}
		}
	}()

	return nil
}

// PendingPurges returns how many tasks are still waiting out their delay.
func (c *Client) PendingPurges() (int, error) {
	queue, err := c.channel.QueueDeclarePassive(
		PurgeDelayQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		delayQueueArgs(),
	)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
