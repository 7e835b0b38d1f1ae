package pipeline

import (
	"strings"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

// FilterLeads keeps the leads where any searchable field contains term,
// ignoring case. A blank term returns leads unchanged.
func FilterLeads(leads []entity.Lead, term string) []entity.Lead {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return leads
	}

	out := make([]entity.Lead, 0, len(leads))
	for _, lead := range leads {
		if matches(lead, needle) {
			out = append(out, lead)
		}
	}
	return out
}

func matches(lead entity.Lead, needle string) bool {
	for _, field := range searchableFields(lead) {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func searchableFields(lead entity.Lead) []string {
	fields := []string{
		lead.Contact.Name,
		lead.Contact.Email,
		lead.Contact.Phone,
		string(lead.Status),
		lead.Priority,
		lead.Remark,
	}
	if lead.Reference != nil {
		fields = append(fields, lead.Reference.Name, lead.Reference.Email, lead.Reference.Phone)
	}
	if lead.Source != nil {
		fields = append(fields, lead.Source.Name)
	}
	if lead.AssignedTo != nil {
		fields = append(fields, lead.AssignedTo.Name)
	}
	return fields
}
