package entity

import (
	"context"
	"time"
)

type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusConverted Status = "Converted"
	StatusClosed    Status = "Closed"
)

// Stages is the pipeline order. Boards always render exactly these columns.
var Stages = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusConverted,
	StatusClosed,
}

// IsStage reports whether s is one of the five pipeline stages.
func (s Status) IsStage() bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// NamedRef is a populated reference to another backend entity (source,
// category, employee, user).
type NamedRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type FollowUp struct {
	Sequence   int       `json:"sequence"`
	Date       time.Time `json:"date"`
	Conclusion string    `json:"conclusion"`
}

type Lead struct {
	ID         string     `json:"_id"`
	Status     Status     `json:"status"`
	Priority   string     `json:"priority,omitempty"`
	Remark     string     `json:"remark,omitempty"`
	Contact    Contact    `json:"contact"`
	Reference  *Contact   `json:"reference,omitempty"`
	Source     *NamedRef  `json:"source,omitempty"`
	For        *NamedRef  `json:"for,omitempty"`
	AssignedTo *NamedRef  `json:"assignedTo"`
	CreatedBy  *NamedRef  `json:"createdBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FollowUps  []FollowUp `json:"followUps"`
}

// LastFollowUp returns the follow-up with the highest sequence, if any.
func (l *Lead) LastFollowUp() (FollowUp, bool) {
	var last FollowUp
	found := false
	for _, f := range l.FollowUps {
		if !found || f.Sequence > last.Sequence {
			last = f
			found = true
		}
	}
	return last, found
}

// ServerFilters are forwarded verbatim as query parameters of the list call.
type ServerFilters struct {
	Status     string `json:"status,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

// LeadInput is the create/update payload. References are sent as ids.
type LeadInput struct {
	Status     Status   `json:"status,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	Remark     string   `json:"remark,omitempty"`
	Contact    Contact  `json:"contact"`
	Reference  *Contact `json:"reference,omitempty"`
	SourceID   string   `json:"source"`
	ForID      string   `json:"for"`
	AssignedTo string   `json:"assignedTo,omitempty"`
}

// LeadGateway is the remote CRM contract consumed by the pipeline.
type LeadGateway interface {
	ListLeads(ctx context.Context, filters ServerFilters) ([]Lead, error)
	GetLead(ctx context.Context, id string) (*Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status Status) (*Lead, error)
	AddFollowUp(ctx context.Context, id, conclusion string) (*Lead, error)
	CreateLead(ctx context.Context, input LeadInput) (*Lead, error)
	UpdateLead(ctx context.Context, id string, input LeadInput) (*Lead, error)
}
