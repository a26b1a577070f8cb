// Package queue runs detect analyses asynchronously over RabbitMQ. The
// handler uploads the image first, so messages only carry the file URI and
// the symptom description.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cropcheckai/cropcheck/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// DetectRunner is the slice of the analyzer the worker needs.
type DetectRunner interface {
	DetectUploaded(ctx context.Context, caseID, imageURI, description string) (*models.DetectResult, error)
}

// JobStore persists job status transitions for polling clients.
type JobStore interface {
	Save(ctx context.Context, job *models.AnalysisJob) error
}

type Service struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
	analyzer  DetectRunner
	jobs      JobStore
}

func NewService(rabbitmqURL string, analyzer DetectRunner, jobs JobStore, logger *zap.Logger) (*Service, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queueName := "crop_analysis"

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Service{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: queueName,
		analyzer:  analyzer,
		jobs:      jobs,
	}, nil
}

// PublishDetectJob enqueues a detect run for an already-uploaded image.
func (q *Service) PublishDetectJob(ctx context.Context, job *models.AnalysisJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         jobBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Analysis job published", zap.String("job_id", job.ID))
	return nil
}

// StartWorker starts consuming detect jobs until ctx is cancelled.
func (q *Service) StartWorker(ctx context.Context, workerID int) error {
	msgs, err := q.channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Analysis worker started", zap.Int("worker_id", workerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Analysis worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
					return
				}

				q.processMessage(ctx, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *Service) processMessage(ctx context.Context, msg amqp.Delivery, workerID int) {
	var job models.AnalysisJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		q.logger.Error("Failed to unmarshal job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // Don't requeue malformed messages
		return
	}

	q.logger.Info("Processing analysis job",
		zap.String("job_id", job.ID),
		zap.Int("worker_id", workerID))

	job.Status = models.StatusProcessing
	q.saveJob(ctx, &job)

	result, err := q.analyzer.DetectUploaded(ctx, job.ID, job.ImageURI, job.Description)
	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		q.logger.Error("Analysis job failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	} else {
		job.Status = models.StatusCompleted
		job.Result = result
		q.logger.Info("Analysis job completed",
			zap.String("job_id", job.ID))
	}

	q.saveJob(ctx, &job)

	if err := msg.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

func (q *Service) saveJob(ctx context.Context, job *models.AnalysisJob) {
	if err := q.jobs.Save(ctx, job); err != nil {
		q.logger.Error("Failed to store job status",
			zap.String("job_id", job.ID),
			zap.String("status", job.Status),
			zap.Error(err))
	}
}

// Close closes the queue connection.
func (q *Service) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}

// HealthCheck checks if RabbitMQ is available.
func (q *Service) HealthCheck() string {
	if q == nil || q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}

	if q.channel == nil {
		return "unhealthy: channel not available"
	}

	return "healthy"
}
