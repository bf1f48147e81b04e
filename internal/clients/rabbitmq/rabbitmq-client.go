package rabbitmq_client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/init-pkg/meal-routes/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/fx"
)

const RoutePlanCreated = "route_plan.created"

// RoutePlanCreatedEvent is the message body of RoutePlanCreated.
type RoutePlanCreatedEvent struct {
	PlanID     string    `json:"plan_id"`
	SheetID    string    `json:"sheet_id"`
	Vehicles   int       `json:"vehicles"`
	Stops      int       `json:"stops"`
	Unassigned []int     `json:"unassigned,omitempty"`
	Skipped    []int     `json:"skipped,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewRoutePlanCreatedEvent(plan *app.RoutePlan) RoutePlanCreatedEvent {
	stops := 0
	for _, r := range plan.Routes {
		for _, s := range r.Stops {
			if s.Type == app.StopJob {
				stops++
			}
		}
	}

	return RoutePlanCreatedEvent{
		PlanID:     plan.ID,
		SheetID:    plan.SheetID,
		Vehicles:   len(plan.Routes),
		Stops:      stops,
		Unassigned: plan.Unassigned,
		Skipped:    plan.Skipped,
		CreatedAt:  plan.CreatedAt,
	}
}

// RabbitPublisher publishes domain events to a fanout exchange. Without
// RABBIT_URL it only logs.
type RabbitPublisher struct {
	url      string
	exchange string
	log      *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ app.RoutePlanPublisher = &RabbitPublisher{}

func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *RabbitPublisher {
	p := &RabbitPublisher{
		url:      cfg.Infrastructure.Rabbit.Url,
		exchange: cfg.Infrastructure.Rabbit.Exchange,
		log:      log,
	}

	if p.url == "" {
		log.Info("RabbitMQ not configured, events are not published")
		return p
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.mu.Lock()
			defer p.mu.Unlock()
			// broker may come up later; channel is reopened on publish
			if err := p.connect(); err != nil {
				log.Warn("RabbitMQ connect failed", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})

	return p
}

func (this *RabbitPublisher) Enabled() bool {
	return this.url != ""
}

// connect must be called with mu held.
func (this *RabbitPublisher) connect() error {
	if this.ch != nil && !this.ch.IsClosed() {
		return nil
	}

	if this.conn == nil || this.conn.IsClosed() {
		conn, err := amqp.Dial(this.url)
		if err != nil {
			return eris.Wrap(err, "amqp dial")
		}
		this.conn = conn
	}

	ch, err := this.conn.Channel()
	if err != nil {
		return eris.Wrap(err, "amqp channel")
	}
	if err := ch.ExchangeDeclare(this.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		ch.Close()
		return eris.Wrapf(err, "declare exchange %s", this.exchange)
	}

	this.ch = ch
	return nil
}

func (this *RabbitPublisher) PublishRoutePlan(ctx context.Context, plan *app.RoutePlan) error {
	event := NewRoutePlanCreatedEvent(plan)
	if !this.Enabled() {
		this.log.Debug("Event skipped", "type", RoutePlanCreated, "plan_id", plan.ID)
		return nil
	}
	return this.publish(ctx, RoutePlanCreated, plan.ID, event)
}

func (this *RabbitPublisher) publish(ctx context.Context, eventType, messageID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "marshal event")
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	if err := this.connect(); err != nil {
		return err
	}

	err = this.ch.PublishWithContext(ctx, this.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return eris.Wrapf(err, "publish %s", eventType)
	}

	this.log.Info("Event published", "type", eventType, "id", messageID)
	return nil
}

func (this *RabbitPublisher) Close() error {
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.ch != nil {
		_ = this.ch.Close()
		this.ch = nil
	}
	if this.conn != nil {
		err := this.conn.Close()
		this.conn = nil
		if err != nil && !eris.Is(err, amqp.ErrClosed) {
			return eris.Wrap(err, "amqp close")
		}
	}
	return nil
}
