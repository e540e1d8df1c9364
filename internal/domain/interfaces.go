package domain

import "context"

// EventPublisher broadcasts domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// SubmissionLimiter decides whether a client may submit another form.
type SubmissionLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// SheetsAppender appends a row to a named sheet of the mirror spreadsheet.
type SheetsAppender interface {
	AppendRow(ctx context.Context, sheet string, values []any) error
}

// SheetsClient is the mirror spreadsheet as the API process uses it.
type SheetsClient interface {
	SheetsAppender
	TestConnection(ctx context.Context) error
}
