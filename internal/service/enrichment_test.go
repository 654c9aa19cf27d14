package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/octobees/contact-enricher/internal/dto"
	"github.com/octobees/contact-enricher/internal/enrichment"
	"github.com/octobees/contact-enricher/internal/entity"
	"github.com/octobees/contact-enricher/internal/repository"
)

type stubRunner struct {
	pages    []*enrichment.BatchResult
	err      error
	requests []enrichment.Request
}

func (s *stubRunner) Run(ctx context.Context, req enrichment.Request) (*enrichment.BatchResult, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.pages) == 0 {
		return &enrichment.BatchResult{Done: true, Results: []enrichment.ContactResult{}}, nil
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, nil
}

type stubContactReader struct {
	contact *entity.Contact
	err     error
}

func (s *stubContactReader) GetContact(ctx context.Context, ownerID, id string) (*entity.Contact, error) {
	return s.contact, s.err
}

func TestEnrichmentService_BulkEnrich(t *testing.T) {
	runner := &stubRunner{}
	svc := NewEnrichmentService(runner, &stubContactReader{})

	if _, err := svc.BulkEnrich(context.Background(), "user-1", dto.BulkEnrichRequest{LastID: "c9", Services: []string{"lusha", "apollo"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := enrichment.Request{
		OwnerID:  "user-1",
		LastID:   "c9",
		Services: []enrichment.ProviderName{enrichment.ProviderApollo, enrichment.ProviderLusha},
	}
	if !reflect.DeepEqual(runner.requests[0], want) {
		t.Fatalf("unexpected request: %+v", runner.requests[0])
	}

	if _, err := svc.BulkEnrich(context.Background(), "user-1", dto.BulkEnrichRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.requests[1].Services) != 3 {
		t.Fatalf("expected all services by default, got %v", runner.requests[1].Services)
	}

	_, err := svc.BulkEnrich(context.Background(), "user-1", dto.BulkEnrichRequest{Services: []string{"clearbit"}})
	if !errors.Is(err, ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
	if len(runner.requests) != 2 {
		t.Fatalf("runner must not be called for invalid services")
	}
}

func TestEnrichmentService_RunUntilDone(t *testing.T) {
	runner := &stubRunner{pages: []*enrichment.BatchResult{
		{LastID: "c3", Processed: 3},
		{LastID: "c6", Processed: 0},
		{LastID: "c7", Processed: 1, Done: true},
	}}
	svc := NewEnrichmentService(runner, &stubContactReader{})

	pages := 0
	cursor, err := svc.RunUntilDone(context.Background(), "user-1", dto.BulkEnrichRequest{}, 0, func(*enrichment.BatchResult) { pages++ })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cursor != "c7" || pages != 3 {
		t.Fatalf("unexpected cursor %q after %d pages", cursor, pages)
	}
	if runner.requests[1].LastID != "c3" || runner.requests[2].LastID != "c6" {
		t.Fatalf("cursor not threaded through: %+v", runner.requests)
	}

	runner = &stubRunner{pages: []*enrichment.BatchResult{{LastID: "c3"}, {LastID: "c6"}}}
	svc = NewEnrichmentService(runner, &stubContactReader{})
	cursor, err = svc.RunUntilDone(context.Background(), "user-1", dto.BulkEnrichRequest{}, 1, nil)
	if err != nil || cursor != "c3" || len(runner.requests) != 1 {
		t.Fatalf("expected to stop after one page, got cursor %q err %v", cursor, err)
	}

	runner = &stubRunner{err: errors.New("db down")}
	svc = NewEnrichmentService(runner, &stubContactReader{})
	cursor, err = svc.RunUntilDone(context.Background(), "user-1", dto.BulkEnrichRequest{LastID: "c1"}, 0, nil)
	if err == nil || cursor != "c1" {
		t.Fatalf("expected error with unchanged cursor, got %q %v", cursor, err)
	}
}

func TestEnrichmentService_ContactStatus(t *testing.T) {
	enrichedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	phone := "+16502530000"
	reader := &stubContactReader{contact: &entity.Contact{
		ID:             "c1",
		FullName:       "Jane Doe",
		MobilePhone:    &phone,
		HunterStatus:   entity.StatusEnriched,
		LushaStatus:    entity.StatusNotFound,
		LastEnrichedAt: &enrichedAt,
	}}
	svc := NewEnrichmentService(&stubRunner{}, reader)

	status, err := svc.ContactStatus(context.Background(), "user-1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStatuses := dto.ProviderStatuses{Hunter: "enriched", Apollo: "pending", Lusha: "not_found", Findymail: "pending"}
	if status.Statuses != wantStatuses {
		t.Fatalf("unexpected statuses: %+v", status.Statuses)
	}
	if status.HasEmail || !status.HasPhone || status.Eligible {
		t.Fatalf("unexpected flags: %+v", status)
	}
	if status.LastEnrichedAt == nil || !status.LastEnrichedAt.Equal(enrichedAt) {
		t.Fatalf("unexpected last_enriched_at: %v", status.LastEnrichedAt)
	}

	reader.contact, reader.err = nil, repository.ErrContactNotFound
	if _, err := svc.ContactStatus(context.Background(), "user-1", "missing"); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}
