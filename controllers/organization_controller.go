package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/models"
	"orgsnap-api/services"
	"orgsnap-api/utils"
)

type OrganizationController struct {
	db               *gorm.DB
	analyticsService *services.AnalyticsService
	activityService  *services.ActivityService
	logger           *zap.Logger
}

func NewOrganizationController(db *gorm.DB, analyticsService *services.AnalyticsService, activityService *services.ActivityService, logger *zap.Logger) *OrganizationController {
	return &OrganizationController{
		db:               db,
		analyticsService: analyticsService,
		activityService:  activityService,
		logger:           logger,
	}
}

type CreateOrganizationRequest struct {
	Name            string                `json:"name" binding:"required"`
	Description     *string               `json:"description"`
	ApprovalMethod  models.ApprovalMethod `json:"approval_method"`
	ApprovalDomains []string              `json:"approval_domains"`
}

// CreateOrganization creates an organization and makes the creator its
// approved admin. A user already belonging to an organization cannot create
// another one.
func (oc *OrganizationController) CreateOrganization(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingMembership models.OrganizationMembership
	if err := oc.db.Where("user_id = ?", userID).First(&existingMembership).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already belong to an organization"})
		return
	}

	approvalMethod := req.ApprovalMethod
	if approvalMethod == "" {
		approvalMethod = models.ApprovalMethodManual
	}

	org := models.Organization{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     req.Description,
		ApprovalMethod:  approvalMethod,
		ApprovalDomains: req.ApprovalDomains,
	}

	now := time.Now()
	membership := models.OrganizationMembership{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: org.ID,
		Role:           models.MembershipRoleAdmin,
		Status:         models.MembershipStatusApproved,
		JoinedAt:       &now,
	}

	err := oc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Organization name already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	if err := oc.activityService.RecordOrganizationEvent(userID, models.ActivityOrganizationCreated, &org); err != nil {
		oc.logger.Warn("failed to record organization created activity",
			zap.String("organization_id", org.ID),
			zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"organization": org, "membership": membership})
}

// GetOrganizations lists all organizations.
func (oc *OrganizationController) GetOrganizations(c *gin.Context) {
	var organizations []models.Organization
	query := oc.db.Order("created_at DESC")
	if name := c.Query("q"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if err := query.Find(&organizations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": organizations})
}

// GetOrganization returns one organization with its approved members.
func (oc *OrganizationController) GetOrganization(c *gin.Context) {
	orgID := c.Param("id")

	var org models.Organization
	if err := oc.db.First(&org, "id = ?", orgID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	var members []models.OrganizationMembership
	if err := oc.db.Preload("User").
		Where("organization_id = ? AND status = ?", orgID, models.MembershipStatusApproved).
		Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}
	for i := range members {
		members[i].User.Password = ""
	}

	c.JSON(http.StatusOK, gin.H{"organization": org, "members": members})
}

type UpdateOrganizationRequest struct {
	Name            *string                `json:"name"`
	Description     *string                `json:"description"`
	ApprovalMethod  *models.ApprovalMethod `json:"approval_method"`
	ApprovalDomains []string               `json:"approval_domains"`
}

// UpdateOrganization edits organization settings. Admin only.
func (oc *OrganizationController) UpdateOrganization(c *gin.Context) {
	userID := c.GetString("user_id")
	orgID := c.Param("id")

	if !oc.isApprovedAdmin(userID, orgID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ApprovalMethod != nil {
		updates["approval_method"] = *req.ApprovalMethod
	}
	if req.ApprovalDomains != nil {
		updates["approval_domains"] = models.StringSliceType(req.ApprovalDomains)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := oc.db.Model(&models.Organization{}).Where("id = ?", orgID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Organization updated successfully"})
}

// DeleteOrganization removes an organization and its memberships. Admin only.
func (oc *OrganizationController) DeleteOrganization(c *gin.Context) {
	userID := c.GetString("user_id")
	orgID := c.Param("id")

	if !oc.isApprovedAdmin(userID, orgID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
		return
	}

	err := oc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", orgID).Delete(&models.OrganizationMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Organization{}, "id = ?", orgID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete organization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Organization deleted successfully"})
}

// Apply files a membership request. Depending on the organization's
// approval method the membership is approved immediately (auto, or domain
// when the applicant's email domain matches) or left pending for an admin.
func (oc *OrganizationController) Apply(c *gin.Context) {
	userID := c.GetString("user_id")
	orgID := c.Param("id")

	var org models.Organization
	if err := oc.db.First(&org, "id = ?", orgID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	var existing models.OrganizationMembership
	if err := oc.db.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already belong to an organization"})
		return
	}

	var user models.User
	if err := oc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	status := models.MembershipStatusPending
	var joinedAt *time.Time
	switch org.ApprovalMethod {
	case models.ApprovalMethodAuto:
		status = models.MembershipStatusApproved
	case models.ApprovalMethodDomain:
		domain := utils.EmailDomain(user.Email)
		for _, allowed := range org.ApprovalDomains {
			if domain == allowed {
				status = models.MembershipStatusApproved
				break
			}
		}
	}
	if status == models.MembershipStatusApproved {
		now := time.Now()
		joinedAt = &now
	}

	membership := models.OrganizationMembership{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: orgID,
		Role:           models.MembershipRoleMember,
		Status:         status,
		JoinedAt:       joinedAt,
	}

	if err := oc.db.Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already belong to an organization"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply for membership"})
		return
	}

	if status == models.MembershipStatusApproved {
		if err := oc.activityService.RecordOrganizationEvent(userID, models.ActivityJoinedOrganization, &org); err != nil {
			oc.logger.Warn("failed to record joined organization activity", zap.Error(err))
		}
	} else {
		oc.activityService.NotifyJoinRequest(oc.adminUserIDs(orgID), userID, &org)
	}

	c.JSON(http.StatusCreated, gin.H{"membership": membership})
}

type UpdateMembershipRequest struct {
	Status *models.MembershipStatus `json:"status"`
	Role   *models.MembershipRole   `json:"role"`
}

// UpdateMembership approves/rejects a pending membership or changes a role.
// Admin of the membership's organization only.
func (oc *OrganizationController) UpdateMembership(c *gin.Context) {
	userID := c.GetString("user_id")
	membershipID := c.Param("id")

	var membership models.OrganizationMembership
	if err := oc.db.Preload("Organization").First(&membership, "id = ?", membershipID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}

	if !oc.isApprovedAdmin(userID, membership.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
		return
	}

	var req UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == models.MembershipStatusApproved && membership.JoinedAt == nil {
			updates["joined_at"] = time.Now()
		}
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := oc.db.Model(&membership).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update membership"})
		return
	}

	if req.Status != nil {
		approved := *req.Status == models.MembershipStatusApproved
		oc.activityService.NotifyJoinDecision(membership.UserID, &membership.Organization, approved)
		if approved {
			if err := oc.activityService.RecordOrganizationEvent(membership.UserID, models.ActivityJoinedOrganization, &membership.Organization); err != nil {
				oc.logger.Warn("failed to record joined organization activity", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership updated successfully"})
}

// RemoveMembership lets a user leave their organization, or an admin remove
// a member.
func (oc *OrganizationController) RemoveMembership(c *gin.Context) {
	userID := c.GetString("user_id")
	membershipID := c.Param("id")

	var membership models.OrganizationMembership
	if err := oc.db.Preload("Organization").First(&membership, "id = ?", membershipID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}

	if membership.UserID != userID && !oc.isApprovedAdmin(userID, membership.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to remove this membership"})
		return
	}

	if err := oc.db.Delete(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove membership"})
		return
	}

	if err := oc.activityService.RecordOrganizationEvent(membership.UserID, models.ActivityLeftOrganization, &membership.Organization); err != nil {
		oc.logger.Warn("failed to record left organization activity", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership removed successfully"})
}

// GetAnalytics returns per-member engagement analytics and the aggregate
// summary. Admin only: scoring failures surface as errors here, the view
// renders them with an indicator instead of crashing.
func (oc *OrganizationController) GetAnalytics(c *gin.Context) {
	userID := c.GetString("user_id")
	orgID := c.Param("id")

	var org models.Organization
	if err := oc.db.First(&org, "id = ?", orgID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if !oc.isApprovedAdmin(userID, orgID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
		return
	}

	members, err := oc.analyticsService.ScoreOrganization(orgID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members,
		"summary": oc.analyticsService.Summarize(members),
	})
}

func (oc *OrganizationController) isApprovedAdmin(userID, orgID string) bool {
	var membership models.OrganizationMembership
	err := oc.db.Where("user_id = ? AND organization_id = ?", userID, orgID).First(&membership).Error
	return err == nil && membership.IsApprovedAdmin()
}

func (oc *OrganizationController) adminUserIDs(orgID string) []string {
	var admins []models.OrganizationMembership
	if err := oc.db.
		Where("organization_id = ? AND role = ? AND status = ?", orgID, models.MembershipRoleAdmin, models.MembershipStatusApproved).
		Find(&admins).Error; err != nil {
		return nil
	}

	ids := make([]string, len(admins))
	for i, admin := range admins {
		ids[i] = admin.UserID
	}
	return ids
}
