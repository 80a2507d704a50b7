package models

type DashboardStatistics struct {
	TotalUsers           int64 `json:"totalUsers"`
	TotalCustomers       int64 `json:"totalCustomers"`
	TotalAgents          int64 `json:"totalAgents"`
	TotalAdmins          int64 `json:"totalAdmins"`
	TotalComplaints      int64 `json:"totalComplaints"`
	PendingComplaints    int64 `json:"pendingComplaints"`
	AssignedComplaints   int64 `json:"assignedComplaints"`
	InProgressComplaints int64 `json:"inProgressComplaints"`
	ResolvedComplaints   int64 `json:"resolvedComplaints"`
	ClosedComplaints     int64 `json:"closedComplaints"`
}

type Dashboard struct {
	Statistics           DashboardStatistics `json:"statistics"`
	RecentComplaints     []*ComplaintView    `json:"recentComplaints"`
	ComplaintsByCategory []GroupCount        `json:"complaintsByCategory"`
	ComplaintsByStatus   []GroupCount        `json:"complaintsByStatus"`
}
