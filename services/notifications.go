package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/models"
)

const (
	EventInvite         = "invite"
	EventInviteAccepted = "invite_accepted"
)

// Event is a fire-and-forget notification. The core never waits on
// delivery; Emit failures are the emitter's problem.
type Event struct {
	Type        string `json:"type"`
	RecipientID uint   `json:"recipient_id"`
	SenderID    uint   `json:"sender_id"`
	SubjectID   uint   `json:"subject_id"`
	Message     string `json:"message"`
}

type Notifier interface {
	Emit(ctx context.Context, e Event)
}

type NoopNotifier struct{}

func (NoopNotifier) Emit(ctx context.Context, e Event) {}

// DBNotifier records every event as a notification row and, when a
// publisher is attached, forwards it to the broker. Both writes are
// best-effort: errors are logged, never returned.
type DBNotifier struct {
	db  *gorm.DB
	pub *RabbitPublisher
	log *zap.Logger
}

func NewDBNotifier(db *gorm.DB, pub *RabbitPublisher, log *zap.Logger) *DBNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &DBNotifier{db: db, pub: pub, log: log}
}

func (n *DBNotifier) Emit(ctx context.Context, e Event) {
	row := models.Notification{
		RecipientID: e.RecipientID,
		SenderID:    e.SenderID,
		Type:        e.Type,
		SubjectID:   e.SubjectID,
		Message:     e.Message,
	}
	if err := n.db.WithContext(ctx).Create(&row).Error; err != nil {
		n.log.Warn("notification record failed",
			zap.String("type", e.Type), zap.Uint("recipient", e.RecipientID), zap.Error(err))
	}
	if n.pub != nil {
		if err := n.pub.Publish(ctx, "notifications."+e.Type, e); err != nil {
			n.log.Warn("notification publish failed",
				zap.String("type", e.Type), zap.Error(err))
		}
	}
	NotificationsEmitted.WithLabelValues(e.Type).Inc()
}

// RabbitPublisher pushes events to a durable topic exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, key string, event any) error {
	if p == nil || p.ch == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	// cap how long we wait on a slow broker
	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) <= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		MessageId:   uuid.NewString(),
		Timestamp:   time.Now(),
	})
}

func (p *RabbitPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	return nil
}
