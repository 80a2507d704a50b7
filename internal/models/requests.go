package models

type CreateComplaintRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    Category `json:"category" validate:"required,oneof=technical billing service other"`
	Priority    Priority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type UpdateStatusRequest struct {
	ID         string  `param:"id" validate:"required"`
	Status     Status  `json:"status" validate:"required,oneof=pending assigned in-progress resolved closed"`
	Resolution *string `json:"resolution" validate:"omitempty,max=5000"`
}

type AssignRequest struct {
	ID            string `param:"id" validate:"required"`
	AssignedAgent string `json:"assignedAgent" validate:"required,objectid"`
}

type BulkAssignRequest struct {
	ComplaintIDs []string `json:"complaintIds" validate:"required,min=1,dive,objectid"`
	AgentID      string   `json:"agentId" validate:"required,objectid"`
}

type BulkAssignResponse struct {
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
}

type SendMessageRequest struct {
	ComplaintID string      `json:"complaintId" validate:"required,objectid"`
	ReceiverID  string      `json:"receiverId" validate:"omitempty,objectid"`
	Content     string      `json:"content" validate:"required,max=5000"`
	MessageType MessageType `json:"messageType" validate:"omitempty,oneof=text file image"`
	FileURL     string      `json:"fileUrl" validate:"omitempty,url"`
}

type UpdateUserRequest struct {
	ID       string  `param:"id" validate:"required"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=customer agent admin"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	IsActive *bool   `json:"isActive"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}
