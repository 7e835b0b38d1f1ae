package usecase

import "github.com/xavierca1/lead-pipeline/internal/entity"

type MoveLeadInput struct {
	LeadID string        `json:"leadId"`
	From   entity.Status `json:"from"`
	To     entity.Status `json:"to"`
}

type MoveLeadOutput struct {
	Moved      bool `json:"moved"`
	Superseded bool `json:"superseded"`
	Reconciled bool `json:"reconciled"`
}

type AddFollowUpInput struct {
	LeadID     string `json:"leadId"`
	Conclusion string `json:"conclusion"`
}

type AddFollowUpOutput struct {
	Lead       *entity.Lead `json:"lead,omitempty"`
	Reconciled bool         `json:"reconciled"`
}

type SaveLeadOutput struct {
	Lead       *entity.Lead `json:"lead"`
	Reconciled bool         `json:"reconciled"`
}
