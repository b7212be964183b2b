// Package jobs contains the background task definitions and the Asynq
// worker that processes them.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPDFArchive renders an accepted quotation to PDF and stores
	// it in the archive directory.
	TaskPDFArchive = "quotation:pdf_archive"
)

// PDFArchivePayload identifies the quotation to archive.
type PDFArchivePayload struct {
	QuotationID string `json:"quotation_id"`
}

// NewPDFArchiveTask constructs the archive task.
func NewPDFArchiveTask(quotationID string) (*asynq.Task, error) {
	data, err := json.Marshal(PDFArchivePayload{QuotationID: quotationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPDFArchive, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueuePDFArchive schedules an archive render for the quotation.
func (c *Client) EnqueuePDFArchive(ctx context.Context, quotationID string) (*asynq.TaskInfo, error) {
	task, err := NewPDFArchiveTask(quotationID)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
