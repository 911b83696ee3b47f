package handlers

import (
	"net/http"

	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/models"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/gin-gonic/gin"
)

// GroupHandler handles HTTP requests for groups and their members.
type GroupHandler struct {
	groupModel *models.GroupModel
}

func NewGroupHandler(groupModel *models.GroupModel) *GroupHandler {
	return &GroupHandler{groupModel: groupModel}
}

// CreateGroupRequest is the wire format for group creation. DisplayName is
// the creator's name within the group.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"displayName,omitempty"`
}

// CreateGroupHandler godoc
// @Summary Create a group
// @Description Creates a group and enrolls the caller as its first member
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} types.Group
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /groups [post]
// @Security BearerAuth
func (h *GroupHandler) CreateGroupHandler(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := h.groupModel.CreateGroup(c.Request.Context(), userID, req.DisplayName, types.CreateGroupRequest{Name: req.Name})
	if err != nil {
		handleModelError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GetGroupHandler godoc
// @Summary Get a group with its members
// @Tags groups
// @Produce json
// @Param groupId path string true "Group ID"
// @Success 200 {object} types.GroupWithMembers
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId} [get]
// @Security BearerAuth
func (h *GroupHandler) GetGroupHandler(c *gin.Context) {
	group, err := h.groupModel.GetGroup(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// ListGroupsHandler godoc
// @Summary List the caller's groups
// @Tags groups
// @Produce json
// @Success 200 {array} types.Group
// @Router /groups [get]
// @Security BearerAuth
func (h *GroupHandler) ListGroupsHandler(c *gin.Context) {
	groups, err := h.groupModel.ListUserGroups(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// UpdateGroupHandler godoc
// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param request body types.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} types.Group
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId} [patch]
// @Security BearerAuth
func (h *GroupHandler) UpdateGroupHandler(c *gin.Context) {
	var req types.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := h.groupModel.UpdateGroup(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c), req)
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroupHandler godoc
// @Summary Delete a group
// @Description Soft-deletes the group. Only the creator may delete it.
// @Tags groups
// @Param groupId path string true "Group ID"
// @Success 204
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /groups/{groupId} [delete]
// @Security BearerAuth
func (h *GroupHandler) DeleteGroupHandler(c *gin.Context) {
	if err := h.groupModel.DeleteGroup(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c)); err != nil {
		handleModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMemberHandler godoc
// @Summary Add a member to a group
// @Description Adds a member, optionally linked to a user account
// @Tags groups-members
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param request body types.AddMemberRequest true "Member details"
// @Success 201 {object} types.GroupMember
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /groups/{groupId}/members [post]
// @Security BearerAuth
func (h *GroupHandler) AddMemberHandler(c *gin.Context) {
	var req types.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.groupModel.AddMember(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c), req)
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// ListMembersHandler godoc
// @Summary List group members
// @Tags groups-members
// @Produce json
// @Param groupId path string true "Group ID"
// @Success 200 {array} types.GroupMember
// @Router /groups/{groupId}/members [get]
// @Security BearerAuth
func (h *GroupHandler) ListMembersHandler(c *gin.Context) {
	members, err := h.groupModel.ListMembers(c.Request.Context(), c.Param("groupId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// RemoveMemberHandler godoc
// @Summary Remove a member from a group
// @Description Fails with a conflict when the member has ledger activity
// @Tags groups-members
// @Param groupId path string true "Group ID"
// @Param memberId path string true "Member ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /groups/{groupId}/members/{memberId} [delete]
// @Security BearerAuth
func (h *GroupHandler) RemoveMemberHandler(c *gin.Context) {
	err := h.groupModel.RemoveMember(c.Request.Context(), c.Param("groupId"), c.Param("memberId"), middleware.GetUserID(c))
	if err != nil {
		handleModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
