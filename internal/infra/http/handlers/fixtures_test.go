package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/notify"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
	"github.com/xavierca1/lead-pipeline/internal/usecase"
)

var errBackend = errors.New("backend unavailable")

// fakeCRM is an in-memory LeadGateway.
type fakeCRM struct {
	mu        sync.Mutex
	leads     []entity.Lead
	listErr   error
	updateErr error
	lists     int
}

func (f *fakeCRM) ListLeads(ctx context.Context, filters entity.ServerFilters) ([]entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Lead, 0, len(f.leads))
	for _, l := range f.leads {
		if filters.Status != "" && string(l.Status) != filters.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeCRM) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.ID == id {
			c := l
			return &c, nil
		}
	}
	return nil, errBackend
}

func (f *fakeCRM) UpdateLeadStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].Status = status
			c := f.leads[i]
			return &c, nil
		}
	}
	return nil, errBackend
}

func (f *fakeCRM) AddFollowUp(ctx context.Context, id, conclusion string) (*entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].FollowUps = append(f.leads[i].FollowUps, entity.FollowUp{
				Sequence:   len(f.leads[i].FollowUps) + 1,
				Conclusion: conclusion,
			})
			c := f.leads[i]
			return &c, nil
		}
	}
	return nil, errBackend
}

func (f *fakeCRM) CreateLead(ctx context.Context, input entity.LeadInput) (*entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := entity.Lead{ID: "new-1", Status: input.Status, Contact: input.Contact}
	f.leads = append(f.leads, l)
	return &l, nil
}

func (f *fakeCRM) UpdateLead(ctx context.Context, id string, input entity.LeadInput) (*entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].Contact = input.Contact
			c := f.leads[i]
			return &c, nil
		}
	}
	return nil, errBackend
}

// testServer plays one browser: do keeps the session cookie between calls.
type testServer struct {
	crm     *fakeCRM
	store   *pipeline.Store
	notices *notify.Center
	router  http.Handler
	session *http.Cookie
}

// otherBrowser shares the backend and the store but has no session yet.
func (s *testServer) otherBrowser() *testServer {
	other := *s
	other.session = nil
	return &other
}

func newTestServer(leads ...entity.Lead) *testServer {
	crm := &fakeCRM{leads: leads}
	notices := notify.NewCenter(10, nil)
	store := pipeline.NewStore(crm, notices, nil)

	board := NewBoardHandler(store, notices)
	leadHandler := NewLeadHandler(
		usecase.NewMoveLeadUseCase(crm, store, nil, notices, entity.NewTransitionPolicy(entity.StatusClosed), nil),
		usecase.NewAddFollowUpUseCase(crm, store, nil, notices, nil),
		usecase.NewSaveLeadUseCase(crm, store, nil, notices, nil),
	)

	r := chi.NewRouter()
	r.Get("/board", board.GetBoard)
	r.Put("/board/filters", board.SetFilters)
	r.Post("/board/refresh", board.Refresh)
	r.Get("/notifications", board.Notifications)
	r.Get("/detail", board.GetDetail)
	r.Delete("/detail", board.CloseDetail)
	r.Post("/leads", leadHandler.Create)
	r.Get("/leads/{id}", board.GetLead)
	r.Put("/leads/{id}", leadHandler.Update)
	r.Post("/leads/{id}/move", leadHandler.Move)
	r.Post("/leads/{id}/follow-ups", leadHandler.AddFollowUp)

	return &testServer{crm: crm, store: store, notices: notices, router: r}
}

func sampleLeads() []entity.Lead {
	return []entity.Lead{
		{ID: "L1", Status: entity.StatusNew, Contact: entity.Contact{Name: "Ana Souza", Email: "ana@acme.com"}},
		{ID: "L2", Status: entity.StatusContacted, Contact: entity.Contact{Name: "Bruno Lima", Phone: "11999990000"}},
		{ID: "L3", Status: entity.StatusClosed, Contact: entity.Contact{Name: "Carla Dias"}},
	}
}
