package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/repository"
)

// Suppliers is the supplier directory.
type Suppliers struct {
	repo repository.SupplierRepository
	log  *zap.Logger
}

func NewSuppliers(repo repository.SupplierRepository, log *zap.Logger) *Suppliers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Suppliers{repo: repo, log: log}
}

func (s *Suppliers) remote(op string, err error) error {
	if errs.IsDomain(err) {
		return err
	}
	s.log.Error("store call failed", zap.String("op", op), zap.Error(err))
	return errs.Remote(op, err)
}

func (s *Suppliers) List(ctx context.Context) ([]models.Supplier, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.remote("supplier.list", err)
	}
	return out, nil
}

func (s *Suppliers) Get(ctx context.Context, id string) (models.Supplier, error) {
	out, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Supplier{}, s.remote("supplier.get", err)
	}
	return out, nil
}

func (s *Suppliers) Create(ctx context.Context, in models.SupplierInput) (models.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return models.Supplier{}, err
	}
	out, err := s.repo.Create(ctx, in)
	if err != nil {
		return models.Supplier{}, s.remote("supplier.create", err)
	}
	s.log.Info("supplier added", zap.String("supplier_id", out.ID), zap.String("name", out.Name))
	return out, nil
}

func (s *Suppliers) Update(ctx context.Context, id string, patch models.SupplierPatch) (models.Supplier, error) {
	if err := patch.Validate(); err != nil {
		return models.Supplier{}, err
	}
	out, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return models.Supplier{}, s.remote("supplier.update", err)
	}
	return out, nil
}

func (s *Suppliers) Delete(ctx context.Context, id string, confirmer Confirmer) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return s.remote("supplier.get", err)
	}
	if err := confirm(ctx, confirmer, PromptDeleteSupplier); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.remote("supplier.delete", err)
	}
	s.log.Info("supplier deleted", zap.String("supplier_id", id))
	return nil
}
