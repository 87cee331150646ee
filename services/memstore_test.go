package services

import (
	"context"
	"sync"

	"rsvp_server/models"
)

// memStore is an in-memory Store for service tests. Responses keep insertion
// order, which stands in for store order.
type memStore struct {
	mu        sync.Mutex
	parties   map[string]models.Party
	responses map[string][]models.Response

	// injected failures, returned as-is by the matching method
	errPut, errGet, errFind, errInsert, errUpdate, errList error

	// unique rejects a second response for the same employeeId with ErrConflict
	unique bool

	// findGate, when set, is called after Find has taken its snapshot
	findGate func()

	calls int
}

func newMemStore() *memStore {
	return &memStore{
		parties:   map[string]models.Party{},
		responses: map[string][]models.Response{},
	}
}

func (m *memStore) PutParty(_ context.Context, party models.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.errPut != nil {
		return m.errPut
	}
	m.parties[party.PartyID] = party
	return nil
}

func (m *memStore) GetParty(_ context.Context, partyID string) (*models.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.errGet != nil {
		return nil, m.errGet
	}
	p, ok := m.parties[partyID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) FindResponsesByEmployeeID(_ context.Context, partyID, employeeID string) ([]models.Response, error) {
	m.mu.Lock()
	m.calls++
	if m.errFind != nil {
		m.mu.Unlock()
		return nil, m.errFind
	}
	var out []models.Response
	for _, r := range m.responses[partyID] {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	gate := m.findGate
	m.mu.Unlock()

	if gate != nil {
		gate()
	}
	return out, nil
}

func (m *memStore) InsertResponse(_ context.Context, resp models.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.errInsert != nil {
		return m.errInsert
	}
	if m.unique {
		for _, r := range m.responses[resp.PartyID] {
			if r.EmployeeID == resp.EmployeeID {
				return models.ErrConflict
			}
		}
	}
	m.responses[resp.PartyID] = append(m.responses[resp.PartyID], resp)
	return nil
}

func (m *memStore) UpdateResponse(_ context.Context, resp models.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.errUpdate != nil {
		return m.errUpdate
	}
	list := m.responses[resp.PartyID]
	for i := range list {
		if list[i].ResponseID == resp.ResponseID {
			list[i] = resp
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memStore) ListResponses(_ context.Context, partyID string) ([]models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.errList != nil {
		return nil, m.errList
	}
	return append([]models.Response(nil), m.responses[partyID]...), nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memStore) all(partyID string) []models.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Response(nil), m.responses[partyID]...)
}

// recordingPublisher captures published event types
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, eventType string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return p.err
}
