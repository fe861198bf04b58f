package mappers

import (
	"fmt"

	"skillswap/internal/domain/community"
	"skillswap/internal/infrastructure/persistence/models"
)

type MembershipMapper interface {
	ToEntity(model *models.MembershipModel) (*community.Membership, error)
	ToModel(entity *community.Membership) (*models.MembershipModel, error)
	ToEntities(models []*models.MembershipModel) ([]*community.Membership, error)
}

type MembershipMapperImpl struct{}

func NewMembershipMapper() MembershipMapper {
	return &MembershipMapperImpl{}
}

func (m *MembershipMapperImpl) ToEntity(model *models.MembershipModel) (*community.Membership, error) {
	if model == nil {
		return nil, nil
	}

	role := community.Role(model.Role)
	if !community.ValidRoles[role] {
		return nil, fmt.Errorf("invalid membership role: %s", model.Role)
	}

	entity, err := community.ReconstructMembership(
		model.ID,
		model.CommunityID,
		model.UserID,
		role,
		model.IsAutoRenew,
		model.SubscriptionEndsAt,
		model.JoinedAt,
		model.LeftAt,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct membership entity: %w", err)
	}

	return entity, nil
}

func (m *MembershipMapperImpl) ToModel(entity *community.Membership) (*models.MembershipModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.MembershipModel{
		ID:                 entity.ID(),
		CommunityID:        entity.CommunityID(),
		UserID:             entity.UserID(),
		Role:               string(entity.Role()),
		IsAutoRenew:        entity.IsAutoRenew(),
		SubscriptionEndsAt: entity.SubscriptionEndsAt(),
		JoinedAt:           entity.JoinedAt(),
		LeftAt:             entity.LeftAt(),
		IsActive:           entity.IsActive(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}

func (m *MembershipMapperImpl) ToEntities(membershipModels []*models.MembershipModel) ([]*community.Membership, error) {
	entities := make([]*community.Membership, 0, len(membershipModels))
	for _, model := range membershipModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
