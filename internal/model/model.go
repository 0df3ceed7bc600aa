package model

import (
	"strings"
	"time"
)

type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
)

// Valid reports whether k is one of the two item kinds.
func (k Kind) Valid() bool {
	return k == KindTask || k == KindProject
}

// IDPrefix is the prefix the repository uses for ids of this kind.
func (k Kind) IDPrefix() string {
	switch k {
	case KindProject:
		return "proj"
	default:
		return "task"
	}
}

// KindOfID infers the kind from a repository-assigned id.
func KindOfID(id string) (Kind, bool) {
	id = strings.TrimSpace(id)
	switch {
	case strings.HasPrefix(id, "task-") && len(id) > len("task-"):
		return KindTask, true
	case strings.HasPrefix(id, "proj-") && len(id) > len("proj-"):
		return KindProject, true
	default:
		return "", false
	}
}

type DeferState string

const (
	DeferNone    DeferState = ""
	DeferAnytime DeferState = "anytime"
	DeferSomeday DeferState = "someday"
)

type LogStatus string

const (
	LogNone      LogStatus = ""
	LogCompleted LogStatus = "completed"
	LogCanceled  LogStatus = "canceled"
)

type ChecklistEntry struct {
	Title        string    `json:"title"`
	Logged       bool      `json:"logged"`
	LoggedStatus LogStatus `json:"loggedStatus,omitempty"`
}

// Ref addresses one row in the repository.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

type Item struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// ParentID is the owning project for tasks. Projects never have a parent.
	ParentID *string `json:"parentId,omitempty"`
	// ExternalID is opaque data owned by an external task application.
	ExternalID *string `json:"externalId,omitempty"`

	Title     string           `json:"title"`
	Notes     string           `json:"notes,omitempty"`
	Defer     DeferState       `json:"defer,omitempty"`
	StartDate *time.Time       `json:"startDate,omitempty"`
	Deadline  *time.Time       `json:"deadline,omitempty"`
	Checklist []ChecklistEntry `json:"checklist,omitempty"`
	TagIDs    []string         `json:"tagIds,omitempty"`
	Evening   bool             `json:"evening"`
	Order     float64          `json:"order"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// A non-nil LoggedAt marks the item as logged regardless of LogStatus.
	LoggedAt  *time.Time `json:"loggedAt,omitempty"`
	LogStatus LogStatus  `json:"logStatus,omitempty"`

	BlockedBy []string `json:"blockedBy,omitempty"`
	Later     bool     `json:"later"`
}

func (it Item) Ref() Ref { return Ref{Kind: it.Kind, ID: it.ID} }

func (it Item) Deleted() bool { return it.DeletedAt != nil }

func (it Item) Logged() bool { return it.LoggedAt != nil }

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parentId,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
