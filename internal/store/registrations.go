package store

import (
	"context"
	"sync"

	"upi-cli/internal/model"
)

// RegistrationsAPI is the slice of the API client the admin views use.
type RegistrationsAPI interface {
	ListApplications(ctx context.Context) ([]model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
	DeleteApplication(ctx context.Context, id string) error
}

// RegistrationsStore backs the admin list view. Mutations are not
// optimistic: a status change round-trips to the server and then refetches
// the list, so the displayed value is always confirmed server state.
type RegistrationsStore struct {
	api    RegistrationsAPI
	notify Notify

	mu      sync.Mutex
	apps    []model.Application
	lastErr string
	loading bool
}

func NewRegistrationsStore(a RegistrationsAPI, notify Notify) *RegistrationsStore {
	return &RegistrationsStore{api: a, notify: notify}
}

func (s *RegistrationsStore) Applications() []model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps
}

func (s *RegistrationsStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *RegistrationsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *RegistrationsStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *RegistrationsStore) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.notify.send(err.Error())
	return err
}

func (s *RegistrationsStore) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	apps, err := s.api.ListApplications(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.apps = apps
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// SetStatus patches one application's status, then refetches the list. On
// failure the cached list is untouched, so the view keeps showing the last
// confirmed values rather than the attempted one.
func (s *RegistrationsStore) SetStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.UpdateApplicationStatus(ctx, id, status); err != nil {
		return s.fail(err)
	}
	apps, err := s.api.ListApplications(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.apps = apps
	s.lastErr = ""
	s.mu.Unlock()
	s.notify.send("status updated")
	return nil
}

// Delete removes the application from the cached list only on success.
func (s *RegistrationsStore) Delete(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.DeleteApplication(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	kept := s.apps[:0]
	for _, a := range s.apps {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.apps = kept
	s.lastErr = ""
	s.mu.Unlock()
	s.notify.send("application deleted")
	return nil
}
