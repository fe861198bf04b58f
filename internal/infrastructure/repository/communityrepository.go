package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"skillswap/internal/domain/community"
	"skillswap/internal/infrastructure/persistence/mappers"
	"skillswap/internal/infrastructure/persistence/models"
	"skillswap/internal/shared/db"
	"skillswap/internal/shared/logger"
)

type CommunityRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CommunityMapper
	logger logger.Interface
}

func NewCommunityRepository(gormDB *gorm.DB, logger logger.Interface) community.CommunityRepository {
	return &CommunityRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewCommunityMapper(),
		logger: logger,
	}
}

func (r *CommunityRepositoryImpl) FindByID(ctx context.Context, id uint) (*community.Community, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.CommunityModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to find community by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map community: %w", err)
	}
	return entity, nil
}

func (r *CommunityRepositoryImpl) Create(ctx context.Context, c *community.Community) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model, err := r.mapper.ToModel(c)
	if err != nil {
		return fmt.Errorf("failed to map community entity: %w", err)
	}

	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create community", "name", c.Name(), "error", err)
		return fmt.Errorf("failed to create community: %w", err)
	}

	if c.ID() == 0 {
		if err := c.SetID(model.ID); err != nil {
			return fmt.Errorf("failed to set community ID: %w", err)
		}
	}
	return nil
}

func (r *CommunityRepositoryImpl) ListActive(ctx context.Context) ([]*community.Community, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var communityModels []*models.CommunityModel
	if err := tx.Where("is_active = ?", true).Order("name").Find(&communityModels).Error; err != nil {
		r.logger.Errorw("failed to list active communities", "error", err)
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}

	return r.mapper.ToEntities(communityModels)
}

func (r *CommunityRepositoryImpl) IncrementMemberCount(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.CommunityModel{}).
		Where("id = ?", id).
		UpdateColumn("members_count", gorm.Expr("members_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment member count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("community %d not found", id)
	}
	return nil
}

func (r *CommunityRepositoryImpl) DecrementMemberCount(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	// the count can never go below zero even if callers double-decrement
	result := tx.Model(&models.CommunityModel{}).
		Where("id = ? AND members_count > 0", id).
		UpdateColumn("members_count", gorm.Expr("members_count - 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement member count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("community %d not found or count already zero", id)
	}
	return nil
}
