package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/domain/community"
	"skillswap/internal/infrastructure/persistence/mappers"
	"skillswap/internal/infrastructure/persistence/models"
	"skillswap/internal/shared/constants"
	"skillswap/internal/shared/db"
	"skillswap/internal/shared/logger"
)

type MembershipRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MembershipMapper
	logger logger.Interface
}

func NewMembershipRepository(gormDB *gorm.DB, logger logger.Interface) community.MembershipRepository {
	return &MembershipRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewMembershipMapper(),
		logger: logger,
	}
}

func (r *MembershipRepositoryImpl) FindByUserAndCommunity(ctx context.Context, userID, communityID uint) (*community.Membership, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.MembershipModel
	err := tx.Where("user_id = ? AND community_id = ?", userID, communityID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to find membership", "user_id", userID, "community_id", communityID, "error", err)
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map membership: %w", err)
	}
	return entity, nil
}

func (r *MembershipRepositoryImpl) Create(ctx context.Context, m *community.Membership) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map membership entity: %w", err)
	}

	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create membership",
			"user_id", m.UserID(), "community_id", m.CommunityID(), "error", err)
		return fmt.Errorf("failed to create membership: %w", err)
	}

	if err := m.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set membership ID: %w", err)
	}
	return nil
}

func (r *MembershipRepositoryImpl) Update(ctx context.Context, m *community.Membership) error {
	if m.ID() == 0 {
		return fmt.Errorf("cannot update membership without ID")
	}

	tx := db.GetTxFromContext(ctx, r.db)

	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map membership entity: %w", err)
	}

	// Save writes every column so nullable fields (left_at, ends_at) are
	// cleared when the entity cleared them
	if err := tx.Save(model).Error; err != nil {
		r.logger.Errorw("failed to update membership", "membership_id", m.ID(), "error", err)
		return fmt.Errorf("failed to update membership: %w", err)
	}
	return nil
}

func (r *MembershipRepositoryImpl) FindExpired(ctx context.Context, now time.Time) ([]*community.Membership, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var membershipModels []*models.MembershipModel
	err := tx.
		Where("is_active = ? AND is_auto_renew = ? AND subscription_ends_at < ?", true, false, now).
		Find(&membershipModels).Error
	if err != nil {
		r.logger.Errorw("failed to find expired memberships", "error", err)
		return nil, fmt.Errorf("failed to find expired memberships: %w", err)
	}

	return r.mapper.ToEntities(membershipModels)
}

// renewalRow is the flat scan target for the denormalized auto-renew
// selection. Field names follow the column aliases in the query.
type renewalRow struct {
	ID                 uint
	CommunityID        uint
	UserID             uint
	Role               string
	IsAutoRenew        bool
	SubscriptionEndsAt *time.Time
	JoinedAt           time.Time
	LeftAt             *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	UserCredits        int
	CommunityCost      int
	CommunityAdminID   uint
	CommunityName      string
}

func (r *MembershipRepositoryImpl) FindExpiredAutoRenew(ctx context.Context, now time.Time) ([]community.RenewalCandidate, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT m.id, m.community_id, m.user_id, m.role, m.is_auto_renew,
		       m.subscription_ends_at, m.joined_at, m.left_at, m.is_active,
		       m.created_at, m.updated_at,
		       u.credits AS user_credits,
		       c.credits_cost AS community_cost,
		       c.admin_id AS community_admin_id,
		       c.name AS community_name
		FROM %s m
		JOIN %s c ON c.id = m.community_id
		JOIN %s u ON u.id = m.user_id
		WHERE m.is_active = ? AND m.is_auto_renew = ? AND m.subscription_ends_at < ?`,
		constants.TableMemberships, constants.TableCommunities, constants.TableUsers)

	var rows []renewalRow
	if err := tx.Raw(query, true, true, now).Scan(&rows).Error; err != nil {
		r.logger.Errorw("failed to find auto-renew candidates", "error", err)
		return nil, fmt.Errorf("failed to find auto-renew candidates: %w", err)
	}

	candidates := make([]community.RenewalCandidate, 0, len(rows))
	for _, row := range rows {
		entity, err := r.mapper.ToEntity(&models.MembershipModel{
			ID:                 row.ID,
			CommunityID:        row.CommunityID,
			UserID:             row.UserID,
			Role:               row.Role,
			IsAutoRenew:        row.IsAutoRenew,
			SubscriptionEndsAt: row.SubscriptionEndsAt,
			JoinedAt:           row.JoinedAt,
			LeftAt:             row.LeftAt,
			IsActive:           row.IsActive,
			CreatedAt:          row.CreatedAt,
			UpdatedAt:          row.UpdatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to map auto-renew candidate: %w", err)
		}

		candidates = append(candidates, community.RenewalCandidate{
			Membership:       entity,
			UserCredits:      row.UserCredits,
			CommunityCost:    row.CommunityCost,
			CommunityAdminID: row.CommunityAdminID,
			CommunityName:    row.CommunityName,
		})
	}

	return candidates, nil
}

func (r *MembershipRepositoryImpl) ListActiveByUser(ctx context.Context, userID uint) ([]*community.Membership, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var membershipModels []*models.MembershipModel
	err := tx.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("joined_at DESC").
		Find(&membershipModels).Error
	if err != nil {
		r.logger.Errorw("failed to list memberships", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	return r.mapper.ToEntities(membershipModels)
}

func (r *MembershipRepositoryImpl) CountActiveByCommunity(ctx context.Context, communityID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	err := tx.Model(&models.MembershipModel{}).
		Where("community_id = ? AND is_active = ?", communityID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active memberships: %w", err)
	}
	return count, nil
}
