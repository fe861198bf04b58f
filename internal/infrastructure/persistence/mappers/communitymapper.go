package mappers

import (
	"fmt"

	"skillswap/internal/domain/community"
	"skillswap/internal/infrastructure/persistence/models"
)

type CommunityMapper interface {
	ToEntity(model *models.CommunityModel) (*community.Community, error)
	ToModel(entity *community.Community) (*models.CommunityModel, error)
	ToEntities(models []*models.CommunityModel) ([]*community.Community, error)
}

type CommunityMapperImpl struct{}

func NewCommunityMapper() CommunityMapper {
	return &CommunityMapperImpl{}
}

func (m *CommunityMapperImpl) ToEntity(model *models.CommunityModel) (*community.Community, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := community.ReconstructCommunity(
		model.ID,
		model.Name,
		model.Description,
		model.CreditsCost,
		model.CreditsPeriod,
		model.MembersCount,
		model.IsActive,
		model.AdminID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct community entity: %w", err)
	}

	return entity, nil
}

func (m *CommunityMapperImpl) ToModel(entity *community.Community) (*models.CommunityModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.CommunityModel{
		ID:            entity.ID(),
		Name:          entity.Name(),
		Description:   entity.Description(),
		CreditsCost:   entity.CreditsCost(),
		CreditsPeriod: entity.CreditsPeriod(),
		MembersCount:  entity.MembersCount(),
		IsActive:      entity.IsActive(),
		AdminID:       entity.AdminID(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

func (m *CommunityMapperImpl) ToEntities(communityModels []*models.CommunityModel) ([]*community.Community, error) {
	entities := make([]*community.Community, 0, len(communityModels))
	for _, model := range communityModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
