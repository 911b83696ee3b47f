package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/TallyCrew/tally-crew-backend/config"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisEventService implements types.EventPublisher using Redis Pub/Sub.
// Every group has its own channel, "group:{groupID}".
type RedisEventService struct {
	redisClient   *redis.Client
	log           *zap.SugaredLogger
	metrics       *EventMetrics
	cfg           config.EventServiceConfig
	mu            sync.Mutex
	subscriptions map[string]subscription // key: groupID:userID
}

var _ types.EventPublisher = (*RedisEventService)(nil)

type EventMetrics struct {
	publishLatency   prometheus.Histogram
	subscribeLatency prometheus.Histogram
	errorCount       prometheus.Counter
	eventCount       *prometheus.CounterVec
}

type subscription struct {
	pubsub    *redis.PubSub
	cancelCtx context.CancelFunc
}

func initEventMetrics() *EventMetrics {
	return &EventMetrics{
		publishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tallycrew_event_publish_duration_seconds",
			Help:    "Time taken to publish events",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		subscribeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tallycrew_event_subscribe_duration_seconds",
			Help:    "Time taken to establish subscriptions",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		errorCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tallycrew_event_errors_total",
			Help: "Total number of event processing errors",
		}),
		eventCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tallycrew_events_processed_total",
			Help: "Total number of events processed",
		}, []string{"event_type"}),
	}
}

func NewRedisEventService(redisClient *redis.Client, cfg config.EventServiceConfig) *RedisEventService {
	return &RedisEventService{
		redisClient:   redisClient,
		log:           logger.GetLogger(),
		metrics:       initEventMetrics(),
		cfg:           cfg,
		subscriptions: make(map[string]subscription),
	}
}

func groupChannel(groupID string) string {
	return fmt.Sprintf("group:%s", groupID)
}

// Publish serializes the event and publishes it on the group's channel.
func (r *RedisEventService) Publish(ctx context.Context, groupID string, event types.Event) error {
	startTime := time.Now()
	defer func() {
		r.metrics.publishLatency.Observe(time.Since(startTime).Seconds())
	}()

	if event.Type == "" {
		r.metrics.errorCount.Inc()
		return fmt.Errorf("event type is required")
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.GroupID == "" {
		event.GroupID = groupID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Version == 0 {
		event.Version = 1
	}

	data, err := json.Marshal(event)
	if err != nil {
		r.metrics.errorCount.Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	r.metrics.eventCount.WithLabelValues(string(event.Type)).Inc()

	channel := groupChannel(groupID)
	r.log.Debugw("Publishing event",
		"channel", channel,
		"eventType", event.Type,
		"eventID", event.ID,
		"payloadSize", len(data),
	)

	publishCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.PublishTimeoutSeconds)*time.Second)
	defer cancel()

	if err := r.redisClient.Publish(publishCtx, channel, data).Err(); err != nil {
		r.metrics.errorCount.Inc()
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe opens a per-user subscription to the group's channel. An existing
// subscription for the same group and user is replaced.
func (r *RedisEventService) Subscribe(ctx context.Context, groupID string, userID string) (<-chan types.Event, error) {
	startTime := time.Now()
	defer func() {
		r.metrics.subscribeLatency.Observe(time.Since(startTime).Seconds())
	}()

	subscriptionKey := fmt.Sprintf("%s:%s", groupID, userID)
	r.mu.Lock()
	if _, exists := r.subscriptions[subscriptionKey]; exists {
		r.mu.Unlock()
		if err := r.Unsubscribe(ctx, groupID, userID); err != nil {
			r.log.Warnw("Failed to clean up existing subscription",
				"error", err,
				"groupID", groupID,
				"userID", userID)
		}
		r.mu.Lock()
	}

	pubsub := r.redisClient.Subscribe(ctx, groupChannel(groupID))
	eventChan := make(chan types.Event, r.cfg.EventBufferSize)
	subCtx, cancel := context.WithCancel(context.Background())

	r.subscriptions[subscriptionKey] = subscription{
		pubsub:    pubsub,
		cancelCtx: cancel,
	}
	r.mu.Unlock()

	go r.processSubscription(subCtx, pubsub, eventChan, groupID, userID, subscriptionKey)

	return eventChan, nil
}

func (r *RedisEventService) processSubscription(
	ctx context.Context,
	pubsub *redis.PubSub,
	eventChan chan types.Event,
	groupID string,
	userID string,
	subscriptionKey string,
) {
	defer func() {
		close(eventChan)

		r.mu.Lock()
		delete(r.subscriptions, subscriptionKey)
		r.mu.Unlock()

		if err := pubsub.Close(); err != nil {
			r.log.Warnw("Error closing Redis pubsub", "error", err)
		}
	}()

	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.log.Infow("Redis pubsub channel closed",
					"groupID", groupID,
					"userID", userID)
				return
			}

			var event types.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.log.Errorw("Failed to unmarshal event",
					"error", err,
					"payload", msg.Payload)
				r.metrics.errorCount.Inc()
				continue
			}

			// Non-blocking send; a slow consumer drops events rather than
			// stalling the subscription.
			select {
			case eventChan <- event:
			default:
				r.log.Warnw("Event channel full, dropping event",
					"eventType", event.Type,
					"eventID", event.ID,
					"groupID", groupID,
					"userID", userID)
			}

		case <-ctx.Done():
			r.log.Infow("Subscription context canceled",
				"groupID", groupID,
				"userID", userID)
			return
		}
	}
}

func (r *RedisEventService) Unsubscribe(ctx context.Context, groupID string, userID string) error {
	key := fmt.Sprintf("%s:%s", groupID, userID)

	r.mu.Lock()
	sub, exists := r.subscriptions[key]
	if !exists {
		r.mu.Unlock()
		return nil
	}
	delete(r.subscriptions, key)
	r.mu.Unlock()

	sub.cancelCtx()
	if err := sub.pubsub.Close(); err != nil {
		r.log.Errorw("Failed to close Redis subscription",
			"error", err,
			"groupID", groupID,
			"userID", userID)
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	r.log.Debugw("Successfully unsubscribed",
		"groupID", groupID,
		"userID", userID)
	return nil
}

// Shutdown closes all active subscriptions.
func (r *RedisEventService) Shutdown(ctx context.Context) error {
	r.log.Info("Shutting down event service")

	r.mu.Lock()
	for key, sub := range r.subscriptions {
		r.log.Debugw("Closing subscription during shutdown", "key", key)
		sub.cancelCtx()
		if err := sub.pubsub.Close(); err != nil {
			r.log.Warnw("Error closing subscription", "key", key, "error", err)
		}
	}
	r.subscriptions = make(map[string]subscription)
	r.mu.Unlock()

	return nil
}

// HealthCheck verifies Redis connectivity.
func (r *RedisEventService) HealthCheck(ctx context.Context) error {
	if err := r.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("event service unhealthy: %w", err)
	}
	return nil
}
