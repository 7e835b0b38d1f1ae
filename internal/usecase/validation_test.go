package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

func fields(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateLeadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.LeadInput)
		want   []string
	}{
		{"valid", func(*entity.LeadInput) {}, []string{}},
		{"phone only", func(in *entity.LeadInput) {
			in.Contact.Email = ""
			in.Contact.Phone = "+55 (11) 98765-4321"
		}, []string{}},
		{"missing name", func(in *entity.LeadInput) { in.Contact.Name = "  " }, []string{"contact.name"}},
		{"long name", func(in *entity.LeadInput) { in.Contact.Name = strings.Repeat("a", 201) }, []string{"contact.name"}},
		{"no contact channel", func(in *entity.LeadInput) { in.Contact.Email = "" }, []string{"contact"}},
		{"bad email", func(in *entity.LeadInput) { in.Contact.Email = "not-an-email" }, []string{"contact.email"}},
		{"short phone", func(in *entity.LeadInput) { in.Contact.Phone = "123" }, []string{"contact.phone"}},
		{"bad reference", func(in *entity.LeadInput) {
			in.Reference = &entity.Contact{Name: "Ref", Email: "x@", Phone: "12"}
		}, []string{"reference.email", "reference.phone"}},
		{"missing refs", func(in *entity.LeadInput) {
			in.SourceID = ""
			in.ForID = ""
		}, []string{"source", "for"}},
		{"unknown status", func(in *entity.LeadInput) { in.Status = "Lost" }, []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			assert.Equal(t, tt.want, fields(ValidateLeadInput(input)))
		})
	}
}

func TestValidationMessageJoinsErrors(t *testing.T) {
	msg := validationMessage([]ValidationError{
		{"source", "is required"},
		{"for", "is required"},
	})
	assert.Equal(t, "source: is required; for: is required", msg)
}
