package service

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gitlab.com/chatstack/contacts-service/internal/auth"
	"gitlab.com/chatstack/contacts-service/internal/model"
	"gitlab.com/chatstack/contacts-service/internal/policy"
	"gitlab.com/chatstack/contacts-service/internal/store"
)

// addMembersRequest is the request body for adding members to a group. The
// ids are contact ids of the caller.
type addMembersRequest struct {
	UserIds []string `json:"userIds"`
}

// requireOwnedGroup loads the group from the id parameter of the request URL
// and verifies that the authenticated caller owns it. A group of another
// owner is answered with the same NOT FOUND as a missing one. Returns nil
// after answering the request when the check fails.
func requireOwnedGroup(c *gin.Context) *model.Group {
	callerID := auth.CallerID(c)
	group, err := memberships.GetGroupByIdAndOwner(c.Param("id"), callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "group not found")
			return nil
		}
		abortInternal(c, err)
		return nil
	}
	if !policy.OwnsGroup(callerID, group) {
		abortWithError(c, http.StatusNotFound, "group not found")
		return nil
	}
	return group
}

// listGroupMembers responds with the members of a group owned by the caller.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/groups/7f3a.../members --header "Authorization: Bearer $TOKEN"
func listGroupMembers(c *gin.Context) {
	group := requireOwnedGroup(c)
	if group == nil {
		return
	}
	members, err := memberships.ListMembers(group.Id, auth.CallerID(c))
	if err != nil {
		abortInternal(c, err)
		return
	}
	if members == nil {
		members = []model.GroupMember{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"members": members,
	})
}

// addGroupMembers inserts membership rows for the submitted contact ids
// after verifying group ownership. Contacts that are already members are
// silently skipped by the uniqueness constraint; the response reports how
// many rows were actually added.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/groups/7f3a.../members --request "POST" --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"userIds": ["0c20b0a1-..."]}'
func addGroupMembers(c *gin.Context) {
	// ownership first, so a group that is missing or foreign answers NOT
	// FOUND regardless of the body
	group := requireOwnedGroup(c)
	if group == nil {
		return
	}
	var req addMembersRequest
	if err := c.BindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.UserIds) == 0 {
		abortWithError(c, http.StatusBadRequest, "userIds must be a non-empty list")
		return
	}
	added, err := memberships.AddMembers(group.Id, auth.CallerID(c), req.UserIds)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "members added",
		"added":   added,
	})
}

// removeGroupMember deletes a single membership row identified by the group
// in the URL path and the contact in the 'userId' URL parameter.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/api/groups/7f3a.../members?userId=0c20b0a1-..." --request "DELETE" --header "Authorization: Bearer $TOKEN"
func removeGroupMember(c *gin.Context) {
	group := requireOwnedGroup(c)
	if group == nil {
		return
	}
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		abortWithError(c, http.StatusBadRequest, "userId parameter is required")
		return
	}
	err := memberships.RemoveMember(group.Id, userID, auth.CallerID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "member not found")
			return
		}
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "member removed",
	})
}
