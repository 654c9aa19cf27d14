package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/octobees/contact-enricher/internal/dto"
	"github.com/octobees/contact-enricher/internal/enrichment"
	"github.com/octobees/contact-enricher/internal/entity"
	"github.com/octobees/contact-enricher/internal/repository"
)

var (
	// ErrUnknownService is returned when a request names an unsupported provider.
	ErrUnknownService = errors.New("unknown service")
	// ErrContactNotFound is returned when the contact does not exist for the caller.
	ErrContactNotFound = errors.New("contact not found")
)

// BatchRunner runs one page of the enrichment job.
type BatchRunner interface {
	Run(ctx context.Context, req enrichment.Request) (*enrichment.BatchResult, error)
}

// ContactReader loads a single contact for its owner.
type ContactReader interface {
	GetContact(ctx context.Context, ownerID, id string) (*entity.Contact, error)
}

// EnrichmentService exposes the batch job and per-contact status to transports.
type EnrichmentService struct {
	runner   BatchRunner
	contacts ContactReader
}

// NewEnrichmentService wires the service.
func NewEnrichmentService(runner BatchRunner, contacts ContactReader) *EnrichmentService {
	return &EnrichmentService{runner: runner, contacts: contacts}
}

// BulkEnrich validates the requested services and runs the page after lastID.
func (s *EnrichmentService) BulkEnrich(ctx context.Context, ownerID string, req dto.BulkEnrichRequest) (*enrichment.BatchResult, error) {
	services, err := enrichment.ParseProviders(req.Services)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownService, err)
	}
	return s.runner.Run(ctx, enrichment.Request{
		OwnerID:  ownerID,
		LastID:   req.LastID,
		Services: services,
	})
}

// RunUntilDone keeps paging until the job reports done or maxPages pages ran.
// A non-positive maxPages means no limit. onPage, when set, sees every page.
func (s *EnrichmentService) RunUntilDone(ctx context.Context, ownerID string, req dto.BulkEnrichRequest, maxPages int, onPage func(*enrichment.BatchResult)) (string, error) {
	cursor := req.LastID
	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return cursor, err
		}
		res, err := s.BulkEnrich(ctx, ownerID, dto.BulkEnrichRequest{LastID: cursor, Services: req.Services})
		if err != nil {
			return cursor, err
		}
		if onPage != nil {
			onPage(res)
		}
		if res.LastID != "" {
			cursor = res.LastID
		}
		if res.Done {
			return cursor, nil
		}
	}
	return cursor, nil
}

// ContactStatus summarizes the enrichment state of one contact.
func (s *EnrichmentService) ContactStatus(ctx context.Context, ownerID, contactID string) (*dto.EnrichmentStatusResponse, error) {
	contact, err := s.contacts.GetContact(ctx, ownerID, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	view := enrichment.NewContactView(*contact)
	return &dto.EnrichmentStatusResponse{
		ContactID: contact.ID,
		FullName:  contact.FullName,
		Statuses: dto.ProviderStatuses{
			Hunter:    string(view.Status(enrichment.ProviderHunter)),
			Apollo:    string(view.Status(enrichment.ProviderApollo)),
			Lusha:     string(view.Status(enrichment.ProviderLusha)),
			Findymail: string(statusOrPending(contact.FindymailStatus)),
		},
		HasEmail:       view.HasEmail(),
		HasPhone:       view.HasPhone(),
		Eligible:       enrichment.Eligible(view, enrichment.AllProviders),
		LastEnrichedAt: contact.LastEnrichedAt,
		ExhaustedAt:    contact.EnrichmentExhaustedAt,
		ClaimedUntil:   contact.ClaimedUntil,
	}, nil
}

func statusOrPending(s entity.ProviderStatus) entity.ProviderStatus {
	if s == "" {
		return entity.StatusPending
	}
	return s
}
