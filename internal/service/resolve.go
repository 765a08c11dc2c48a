package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/contact-resolver/internal/entity"
	"github.com/octobees/contact-resolver/internal/repository"
)

// ContactResolver runs the discovery waterfall for a record. Satisfied by
// waterfall.Engine; tests substitute a stub.
type ContactResolver interface {
	Resolve(ctx context.Context, c *entity.BusinessContact) error
	ResolveBatch(ctx context.Context, contacts []*entity.BusinessContact) error
}

// ResolveService loads contacts, drives them through the waterfall and
// persists the refined records.
type ResolveService struct {
	repo   repository.ContactsRepository
	engine ContactResolver
}

// BatchSummary reports the outcome of a batch resolution run.
type BatchSummary struct {
	Processed      int `json:"processed"`
	WithEmail      int `json:"with_email"`
	WithPersonName int `json:"with_person_name"`
}

// NewResolveService constructs a new ResolveService.
func NewResolveService(repo repository.ContactsRepository, engine ContactResolver) *ResolveService {
	return &ResolveService{repo: repo, engine: engine}
}

// ResolveOne runs the waterfall for a single contact and stores the result.
func (s *ResolveService) ResolveOne(ctx context.Context, id string) (*entity.BusinessContact, error) {
	contactID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidContactID
	}

	contact, err := s.repo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	if err := s.engine.Resolve(ctx, contact); err != nil {
		return nil, fmt.Errorf("resolve contact %s: %w", id, err)
	}
	if err := s.repo.Upsert(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// ResolveBatch processes up to limit unresolved contacts sequentially.
// Each record is persisted individually so a failure mid-batch loses at most
// one record's progress.
func (s *ResolveService) ResolveBatch(ctx context.Context, limit int) (BatchSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	contacts, err := s.repo.ListUnresolved(ctx, limit)
	if err != nil {
		return BatchSummary{}, err
	}

	pointers := make([]*entity.BusinessContact, len(contacts))
	for i := range contacts {
		pointers[i] = &contacts[i]
	}

	if err := s.engine.ResolveBatch(ctx, pointers); err != nil {
		return BatchSummary{}, err
	}

	var summary BatchSummary
	for _, contact := range pointers {
		if err := s.repo.Upsert(ctx, contact); err != nil {
			log.Printf("resolve: persist contact %s failed: %v", contact.ID, err)
			continue
		}
		summary.Processed++
		if contact.Email != nil {
			summary.WithEmail++
		}
		if contact.HasPersonName() {
			summary.WithPersonName++
		}
	}
	return summary, nil
}
