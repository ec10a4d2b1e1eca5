// internal/services/provenance_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/models"
	"github.com/craftchain/artisan-marketplace/internal/store"
)

// ProvenanceService owns the append-only per-product event logs keyed under
// store.KeyProductProvenance.
type ProvenanceService struct {
	store    *store.Store
	contract *ContractClient
	log      *logrus.Entry
}

func NewProvenanceService(st *store.Store, contract *ContractClient) *ProvenanceService {
	return &ProvenanceService{
		store:    st,
		contract: contract,
		log:      logrus.WithField("service", "provenance"),
	}
}

// Record appends one event to a product's history, creating the log when the
// product has none yet.
func (s *ProvenanceService) Record(ctx context.Context, productID string, event models.ProvenanceEvent) error {
	return s.store.WithLock(func() error {
		return appendProvenanceLocked(ctx, s.store, productID, event)
	})
}

// Get returns a product's full history. In contract mode the chain is the
// source of truth; the local log is refreshed from the answer.
func (s *ProvenanceService) Get(ctx context.Context, productID string) (*models.ProductProvenance, error) {
	if s.contract != nil {
		history, err := s.contract.GetProductProvenance(ctx, productID)
		if err == nil && len(history) > 0 {
			record := &models.ProductProvenance{ProductID: productID, History: history}
			s.cacheHistory(ctx, record)
			return record, nil
		}
		if err != nil {
			s.log.WithError(err).Warn("contract provenance lookup failed, serving local log")
		}
	}

	var record models.ProductProvenance
	found := false
	err := s.store.WithLock(func() error {
		logs := store.Load(ctx, s.store, store.KeyProductProvenance, models.DefaultProvenance())
		if entry, ok := logs[productID]; ok && len(entry.History) > 0 {
			record = entry
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoHistory
	}
	// History is served in append order; earlier entries may carry later
	// timestamps when the chain backfills, and the log trusts the append.
	return &record, nil
}

func (s *ProvenanceService) cacheHistory(ctx context.Context, record *models.ProductProvenance) {
	err := s.store.WithLock(func() error {
		logs := store.Load(ctx, s.store, store.KeyProductProvenance, models.DefaultProvenance())
		logs[record.ProductID] = *record
		return store.Save(ctx, s.store, store.KeyProductProvenance, logs)
	})
	if err != nil {
		s.log.WithError(err).Warn("failed to cache contract provenance")
	}
}

// appendProvenanceLocked writes events to a product's log. Callers must hold
// the store lock; mutating services use this inside their own critical
// sections so the product write and its provenance entry land together.
func appendProvenanceLocked(ctx context.Context, st *store.Store, productID string, events ...models.ProvenanceEvent) error {
	logs := store.Load(ctx, st, store.KeyProductProvenance, models.DefaultProvenance())
	entry, ok := logs[productID]
	if !ok {
		entry = models.ProductProvenance{ProductID: productID}
	}
	entry.History = append(entry.History, events...)
	logs[productID] = entry
	return store.Save(ctx, st, store.KeyProductProvenance, logs)
}
