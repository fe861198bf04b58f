// Package community exposes the membership lifecycle over HTTP.
package community

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skillswap/internal/application/community/dto"
	"skillswap/internal/application/community/usecases"
	"skillswap/internal/interfaces/http/middleware"
	"skillswap/internal/shared/logger"
	"skillswap/internal/shared/utils"
)

type Handler struct {
	createCommunityUC *usecases.CreateCommunityUseCase
	joinCommunityUC   *usecases.JoinCommunityUseCase
	leaveCommunityUC  *usecases.LeaveCommunityUseCase
	listCommunitiesUC *usecases.ListCommunitiesUseCase
	listMembershipsUC *usecases.ListMembershipsUseCase
	logger            logger.Interface
}

func NewHandler(
	createCommunityUC *usecases.CreateCommunityUseCase,
	joinCommunityUC *usecases.JoinCommunityUseCase,
	leaveCommunityUC *usecases.LeaveCommunityUseCase,
	listCommunitiesUC *usecases.ListCommunitiesUseCase,
	listMembershipsUC *usecases.ListMembershipsUseCase,
) *Handler {
	return &Handler{
		createCommunityUC: createCommunityUC,
		joinCommunityUC:   joinCommunityUC,
		leaveCommunityUC:  leaveCommunityUC,
		listCommunitiesUC: listCommunitiesUC,
		listMembershipsUC: listMembershipsUC,
		logger:            logger.NewLogger(),
	}
}

// ListCommunities handles GET /api/communities
func (h *Handler) ListCommunities(c *gin.Context) {
	communities, err := h.listCommunitiesUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]*dto.CommunityDTO, 0, len(communities))
	for _, comm := range communities {
		items = append(items, dto.CommunityFromEntity(comm))
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.CommunityListDTO{
		Communities: items,
		Total:       len(items),
	})
}

// CreateCommunity handles POST /api/communities
func (h *Handler) CreateCommunity(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req dto.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	comm, err := h.createCommunityUC.Execute(c.Request.Context(), usecases.CreateCommunityCommand{
		Name:          req.Name,
		Description:   req.Description,
		CreditsCost:   req.CreditsCost,
		CreditsPeriod: req.CreditsPeriod,
		AdminID:       userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.CommunityFromEntity(comm), "community created")
}

// Join handles POST /api/communities/:id/join
func (h *Handler) Join(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	communityID, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid community id")
		return
	}

	var req dto.JoinCommunityRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	membership, err := h.joinCommunityUC.Execute(c.Request.Context(), usecases.JoinCommunityCommand{
		UserID:      userID,
		CommunityID: communityID,
		AutoRenew:   req.AutoRenew,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.MembershipFromEntity(membership), "joined community")
}

// Leave handles POST /api/communities/:id/leave
func (h *Handler) Leave(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	communityID, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid community id")
		return
	}

	if err := h.leaveCommunityUC.Execute(c.Request.Context(), usecases.LeaveCommunityCommand{
		UserID:      userID,
		CommunityID: communityID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListMyMemberships handles GET /api/memberships
func (h *Handler) ListMyMemberships(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	memberships, err := h.listMembershipsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]*dto.MembershipDTO, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, dto.MembershipFromEntity(m))
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.MembershipListDTO{
		Memberships: items,
		Total:       len(items),
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
