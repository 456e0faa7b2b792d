// Package worker consumes background jobs: thumbnail generation for
// uploaded images and the one-shot welcome action for new users.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/PaulBabatuyi/FileVault-API/internal/database"
	"github.com/PaulBabatuyi/FileVault-API/internal/observability"
	"github.com/PaulBabatuyi/FileVault-API/internal/queue"
)

// Database is the metadata-store surface the worker needs.
type Database interface {
	GetFileOwned(ctx context.Context, id, userID primitive.ObjectID) (*database.FileRecord, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*database.User, error)
}

// BlobStore is the blob surface the worker needs.
type BlobStore interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// Dequeuer blocks for the next job on any of the named queues.
type Dequeuer interface {
	Dequeue(ctx context.Context, queues []string, timeout time.Duration) (string, []byte, error)
}

type WorkerConfig struct {
	DB             Database
	Blobs          BlobStore
	Queue          Dequeuer
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	DequeueTimeout time.Duration
}

// ProcessingWorker drains the job queues until stopped. A failed job is
// logged and counted; retries belong to the queue transport, never here.
type ProcessingWorker struct {
	config *WorkerConfig
	images *ImageProcessor
	tracer trace.Tracer
	done   chan struct{}
}

func NewProcessingWorker(config *WorkerConfig) *ProcessingWorker {
	if config.DequeueTimeout == 0 {
		config.DequeueTimeout = 2 * time.Second
	}
	return &ProcessingWorker{
		config: config,
		images: NewImageProcessor(config.Blobs),
		tracer: otel.Tracer("filevault/worker"),
		done:   make(chan struct{}),
	}
}

func (pw *ProcessingWorker) Start(ctx context.Context) {
	go pw.run(ctx)
	pw.config.Logger.Info("processing worker started")
}

func (pw *ProcessingWorker) Stop() {
	close(pw.done)
	pw.config.Logger.Info("processing worker stopped")
}

func (pw *ProcessingWorker) run(ctx context.Context) {
	queues := []string{queue.FileQueue, queue.UserQueue}

	for {
		select {
		case <-pw.done:
			return
		case <-ctx.Done():
			return
		default:
		}
		pw.processNext(ctx, queues)
	}
}

func (pw *ProcessingWorker) processNext(ctx context.Context, queues []string) {
	name, payload, err := pw.config.Queue.Dequeue(ctx, queues, pw.config.DequeueTimeout)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			pw.config.Logger.Error("error dequeuing job", zap.Error(err))
		}
		return
	}
	if name == "" {
		// Timed out waiting; loop around.
		return
	}

	ctx, span := pw.tracer.Start(ctx, "job "+name)
	defer span.End()

	switch name {
	case queue.FileQueue:
		err = pw.handleThumbnail(ctx, payload)
	case queue.UserQueue:
		err = pw.handleWelcome(ctx, payload)
	default:
		err = fmt.Errorf("unknown queue %q", name)
	}

	status := "completed"
	if err != nil {
		status = "failed"
		pw.config.Logger.Error("job failed",
			zap.String("queue", name),
			zap.Error(err),
		)
	}
	if pw.config.Metrics != nil {
		pw.config.Metrics.JobsProcessed.WithLabelValues(name, status).Inc()
	}
}

// handleThumbnail generates all three resized variants of an uploaded
// image. Any miss fails the job as a whole; a redelivery regenerates every
// variant since output paths are deterministic.
func (pw *ProcessingWorker) handleThumbnail(ctx context.Context, payload []byte) error {
	var job queue.ThumbnailJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode thumbnail job: %w", err)
	}
	if job.FileID == "" {
		return errors.New("missing fileId")
	}
	if job.UserID == "" {
		return errors.New("missing userId")
	}

	fileID, ok := database.ParseObjectID(job.FileID)
	if !ok {
		return fmt.Errorf("malformed fileId %q", job.FileID)
	}
	userID, ok := database.ParseObjectID(job.UserID)
	if !ok {
		return fmt.Errorf("malformed userId %q", job.UserID)
	}

	file, err := pw.config.DB.GetFileOwned(ctx, fileID, userID)
	if errors.Is(err, database.ErrNotFound) {
		return errors.New("file not found")
	}
	if err != nil {
		return err
	}

	if err := pw.images.Generate(file.LocalPath); err != nil {
		return err
	}

	pw.config.Logger.Info("generated thumbnails",
		zap.String("file_id", job.FileID),
		zap.String("path", file.LocalPath),
	)
	return nil
}

// handleWelcome performs the welcome action. Duplicate queue deliveries
// repeat it; there is no idempotency key.
func (pw *ProcessingWorker) handleWelcome(ctx context.Context, payload []byte) error {
	var job queue.WelcomeJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode welcome job: %w", err)
	}
	if job.UserID == "" {
		return errors.New("missing userId")
	}

	userID, ok := database.ParseObjectID(job.UserID)
	if !ok {
		return fmt.Errorf("malformed userId %q", job.UserID)
	}

	u, err := pw.config.DB.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return errors.New("user not found")
	}
	if err != nil {
		return err
	}

	// Stand-in for the mail delivery owned by the notification provider.
	pw.config.Logger.Info(fmt.Sprintf("Welcome %s!", u.Email),
		zap.String("user_id", job.UserID),
	)
	return nil
}
