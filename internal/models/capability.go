package models

// Operation names a role-gated endpoint.
type Operation string

const (
	OpViewProfile       Operation = "profile.view"
	OpUpdateProfile     Operation = "profile.update"
	OpCreateComplaint   Operation = "complaint.create"
	OpListComplaints    Operation = "complaint.list"
	OpViewComplaint     Operation = "complaint.view"
	OpUpdateStatus      Operation = "complaint.update_status"
	OpAssignComplaint   Operation = "complaint.assign"
	OpDeleteComplaint   Operation = "complaint.delete"
	OpUploadAttachment  Operation = "complaint.upload_attachment"
	OpSendMessage       Operation = "message.send"
	OpReadMessages      Operation = "message.read"
	OpManageUsers       Operation = "admin.users"
	OpViewDashboard     Operation = "admin.dashboard"
	OpManageAssignments Operation = "admin.assignments"
)

var (
	everyone   = []Role{RoleCustomer, RoleAgent, RoleAdmin}
	staff      = []Role{RoleAgent, RoleAdmin}
	adminsOnly = []Role{RoleAdmin}
)

var capabilities = map[Operation][]Role{
	OpViewProfile:       everyone,
	OpUpdateProfile:     everyone,
	OpCreateComplaint:   {RoleCustomer},
	OpListComplaints:    everyone,
	OpViewComplaint:     everyone,
	OpUpdateStatus:      staff,
	OpAssignComplaint:   adminsOnly,
	OpDeleteComplaint:   adminsOnly,
	OpUploadAttachment:  everyone,
	OpSendMessage:       everyone,
	OpReadMessages:      everyone,
	OpManageUsers:       adminsOnly,
	OpViewDashboard:     adminsOnly,
	OpManageAssignments: adminsOnly,
}

// Can reports whether the role is allowed to perform op. Unknown operations are denied.
func (r Role) Can(op Operation) bool {
	for _, allowed := range capabilities[op] {
		if allowed == r {
			return true
		}
	}
	return false
}
