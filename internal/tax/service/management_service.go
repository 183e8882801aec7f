package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/clock"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"github.com/smallbiznis/tradeledger/pkg/db"
	"github.com/smallbiznis/tradeledger/pkg/db/txmanager"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Tx    *txmanager.Manager
	Clock clock.Clock
	Repo  taxdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	tx    *txmanager.Manager
	clock clock.Clock
	repo  taxdomain.Repository
}

func NewService(p ServiceParams) taxdomain.Service {
	return &Service{
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		tx:    p.Tx,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req taxdomain.ListRequest) ([]taxdomain.Response, error) {
	filter := taxdomain.ListRequest{
		Name:     strings.TrimSpace(req.Name),
		IsActive: req.IsActive,
		SortBy:   strings.TrimSpace(req.SortBy),
		OrderBy:  strings.TrimSpace(req.OrderBy),
	}

	var items []taxdomain.ExpenseType
	err := s.tx.Read(ctx, func(tx *gorm.DB) error {
		var err error
		items, err = s.repo.List(ctx, tx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := make([]taxdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*taxdomain.Response, error) {
	typeID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.tx.DB(), typeID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, taxdomain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req taxdomain.CreateRequest) (*taxdomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, taxdomain.ErrInvalidName
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.clock.Now().UTC()
	record := &taxdomain.ExpenseType{
		ID:                s.genID.Generate(),
		Name:              name,
		DefaultCGSTRateBP: req.DefaultCGSTRateBP,
		DefaultSGSTRateBP: req.DefaultSGSTRateBP,
		DefaultIGSTRateBP: req.DefaultIGSTRateBP,
		Description:       normalizePointer(req.Description),
		IsActive:          isActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.Write(ctx, func(tx *gorm.DB) error {
		existing, err := s.repo.FindByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return taxdomain.ErrDuplicateName
		}
		return s.repo.Create(ctx, tx, record)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, taxdomain.ErrDuplicateName
		}
		return nil, err
	}

	s.log.Info("expense type created", zap.String("expense_type_id", record.ID.String()), zap.String("name", name))
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req taxdomain.UpdateRequest) (*taxdomain.Response, error) {
	typeID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	var item *taxdomain.ExpenseType
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		item, err = s.repo.FindByID(ctx, tx, typeID)
		if err != nil {
			return err
		}
		if item == nil {
			return taxdomain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return taxdomain.ErrInvalidName
			}
			if name != item.Name {
				other, err := s.repo.FindByName(ctx, tx, name)
				if err != nil {
					return err
				}
				if other != nil {
					return taxdomain.ErrDuplicateName
				}
			}
			item.Name = name
		}
		if req.DefaultCGSTRateBP != nil {
			item.DefaultCGSTRateBP = *req.DefaultCGSTRateBP
		}
		if req.DefaultSGSTRateBP != nil {
			item.DefaultSGSTRateBP = *req.DefaultSGSTRateBP
		}
		if req.DefaultIGSTRateBP != nil {
			item.DefaultIGSTRateBP = *req.DefaultIGSTRateBP
		}
		if req.Description != nil {
			item.Description = normalizePointer(req.Description)
		}
		if req.IsActive != nil {
			item.IsActive = *req.IsActive
		}
		if err := item.Validate(); err != nil {
			return err
		}

		item.UpdatedAt = s.clock.Now().UTC()
		return s.repo.Update(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (*taxdomain.Response, error) {
	inactive := false
	return s.Update(ctx, taxdomain.UpdateRequest{ID: id, IsActive: &inactive})
}

// Delete removes an expense type that no line references. Referenced types
// can only be deactivated.
func (s *Service) Delete(ctx context.Context, id string) error {
	typeID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.tx.Write(ctx, func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, typeID)
		if err != nil {
			return err
		}
		if item == nil {
			return taxdomain.ErrNotFound
		}

		refs, err := s.repo.CountLineReferences(ctx, tx, typeID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return taxdomain.ErrExpenseTypeInUse
		}

		if err := s.repo.Delete(ctx, tx, typeID); err != nil {
			if db.IsForeignKeyErr(err) {
				return taxdomain.ErrExpenseTypeInUse
			}
			return err
		}
		s.log.Info("expense type deleted", zap.String("expense_type_id", typeID.String()))
		return nil
	})
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, taxdomain.ErrInvalidID
	}
	return id, nil
}

func toResponse(item *taxdomain.ExpenseType) taxdomain.Response {
	return taxdomain.Response{
		ID:                item.ID.String(),
		Name:              item.Name,
		DefaultCGSTRateBP: item.DefaultCGSTRateBP,
		DefaultSGSTRateBP: item.DefaultSGSTRateBP,
		DefaultIGSTRateBP: item.DefaultIGSTRateBP,
		Description:       item.Description,
		IsActive:          item.IsActive,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
