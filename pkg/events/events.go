// Package events defines the notifications published for each synchronized workflow.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every sync event.
const Topic = "n8nsync.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowExportedEvent  EventType = "workflow.exported"
	WorkflowCreatedEvent   EventType = "workflow.created"
	WorkflowUpdatedEvent   EventType = "workflow.updated"
	WorkflowSkippedEvent   EventType = "workflow.skipped"
	WorkflowFailedEvent    EventType = "workflow.failed"
	WorkflowActivatedEvent EventType = "workflow.activated"
	WorkflowRenamedEvent   EventType = "workflow.renamed"
)

// Types returns every event type in publication order.
func Types() []EventType {
	return []EventType{
		WorkflowExportedEvent,
		WorkflowCreatedEvent,
		WorkflowUpdatedEvent,
		WorkflowSkippedEvent,
		WorkflowFailedEvent,
		WorkflowActivatedEvent,
		WorkflowRenamedEvent,
	}
}

type BaseEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id,omitempty"`
	WorkflowID   string    `json:"workflow_id,omitempty"`
	WorkflowName string    `json:"workflow_name"`
}

// NewBaseEvent stamps a new event with a fresh id and the current time.
func NewBaseEvent(eventType EventType, runID, workflowID, workflowName string) BaseEvent {
	return BaseEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		RunID:        runID,
		WorkflowID:   workflowID,
		WorkflowName: workflowName,
	}
}

type WorkflowExported struct {
	BaseEvent

	Path string `json:"path"`
}

func (e WorkflowExported) GetType() EventType {
	return WorkflowExportedEvent
}

type WorkflowCreated struct {
	BaseEvent

	Path string `json:"path,omitempty"`
}

func (e WorkflowCreated) GetType() EventType {
	return WorkflowCreatedEvent
}

type WorkflowUpdated struct {
	BaseEvent

	Path string `json:"path,omitempty"`
}

func (e WorkflowUpdated) GetType() EventType {
	return WorkflowUpdatedEvent
}

type WorkflowSkipped struct {
	BaseEvent

	Path   string `json:"path,omitempty"`
	Reason string `json:"reason"`
}

func (e WorkflowSkipped) GetType() EventType {
	return WorkflowSkippedEvent
}

type WorkflowFailed struct {
	BaseEvent

	Path  string `json:"path,omitempty"`
	Error string `json:"error"`
}

func (e WorkflowFailed) GetType() EventType {
	return WorkflowFailedEvent
}

type WorkflowActivated struct {
	BaseEvent
}

func (e WorkflowActivated) GetType() EventType {
	return WorkflowActivatedEvent
}

type WorkflowRenamed struct {
	BaseEvent

	PreviousName string `json:"previous_name"`
}

func (e WorkflowRenamed) GetType() EventType {
	return WorkflowRenamedEvent
}
