package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/usecase"
)

func TestMoveLeadReconcilesBoard(t *testing.T) {
	srv := newTestServer(sampleLeads()...)
	require.NoError(t, srv.store.Refresh(context.Background()))

	rec := srv.do(t, http.MethodPost, "/leads/L1/move", `{"from":"New","to":"Qualified"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.MoveLeadOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Moved)
	assert.True(t, out.Reconciled)

	groups := srv.store.View().Groups
	assert.Equal(t, 0, groups[0].Count)
	assert.Equal(t, 1, groups[2].Count)
	assert.Equal(t, 2, srv.crm.lists)
}

func TestMoveLeadSameStage(t *testing.T) {
	srv := newTestServer(sampleLeads()...)

	rec := srv.do(t, http.MethodPost, "/leads/L1/move", `{"from":"New","to":"New"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"moved":false`)
	assert.Zero(t, srv.crm.lists)
}

func TestMoveLeadErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		fail   bool
		status int
		code   string
	}{
		{"invalid json", "/leads/L1/move", `{`, false, http.StatusBadRequest, "INVALID_JSON"},
		{"unknown stage", "/leads/L1/move", `{"from":"New","to":"Lost"}`, false, http.StatusBadRequest, usecase.CodeInvalidStage},
		{"terminal stage", "/leads/L3/move", `{"from":"Closed","to":"New"}`, false, http.StatusUnprocessableEntity, usecase.CodeTransitionNotAllowed},
		{"backend failure", "/leads/L1/move", `{"from":"New","to":"Contacted"}`, true, http.StatusBadGateway, usecase.CodeStatusUpdateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(sampleLeads()...)
			require.NoError(t, srv.store.Refresh(context.Background()))
			before := srv.store.View().Groups
			if tt.fail {
				srv.crm.updateErr = errBackend
			}

			rec := srv.do(t, http.MethodPost, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, before, srv.store.View().Groups)
		})
	}
}

func TestAddFollowUpEndpoint(t *testing.T) {
	srv := newTestServer(sampleLeads()...)

	rec := srv.do(t, http.MethodPost, "/leads/L2/follow-ups", `{"conclusion":"Asked for a proposal"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var out usecase.AddFollowUpOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Lead.FollowUps, 1)
	assert.Equal(t, "Asked for a proposal", out.Lead.FollowUps[0].Conclusion)

	rec = srv.do(t, http.MethodPost, "/leads/L2/follow-ups", `{"conclusion":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAndUpdateLead(t *testing.T) {
	srv := newTestServer(sampleLeads()...)

	rec := srv.do(t, http.MethodPost, "/leads", `{"contact":{"name":"Davi","email":"davi@acme.com"},"source":"s1","for":"f1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created usecase.SaveLeadOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, entity.StatusNew, created.Lead.Status)
	assert.Equal(t, 4, srv.store.View().Total)

	rec = srv.do(t, http.MethodPost, "/leads", `{"contact":{"name":""},"source":"s1","for":"f1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = srv.do(t, http.MethodPut, "/leads/L1", `{"contact":{"name":"Ana S.","phone":"11988887777"},"source":"s1","for":"f1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana S.")
}
