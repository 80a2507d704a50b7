package usecase

import "github.com/nguyentranbao-ct/complaint-registry/internal/models"

// canViewComplaint lets customers see their own complaints and agents see
// complaints that are theirs or still unassigned.
func canViewComplaint(actor *models.User, c *models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return c.Customer == actor.ID
	case models.RoleAgent:
		return c.AssignedAgent == nil || c.IsAssignedTo(actor.ID)
	}
	return false
}

// canActOnComplaint is required for writes inside a complaint: messages,
// attachments. Admins always qualify, others must be a participant.
func canActOnComplaint(actor *models.User, c *models.Complaint) bool {
	return actor.Role == models.RoleAdmin || c.IsParticipant(actor.ID)
}

func complaintScope(actor *models.User) models.ComplaintFilter {
	switch actor.Role {
	case models.RoleAdmin:
		return models.ComplaintFilter{}
	case models.RoleAgent:
		return models.ComplaintFilter{AssignedAgent: &actor.ID}
	}
	return models.ComplaintFilter{Customer: &actor.ID}
}
