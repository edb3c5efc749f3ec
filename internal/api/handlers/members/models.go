package members

// CreateMemberRequest HTTP request model
type CreateMemberRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// UpdateMemberRequest HTTP request model
type UpdateMemberRequest struct {
	OldEmail string `json:"oldEmail" validate:"required,email,max=255"`
	NewEmail string `json:"newEmail" validate:"required,email,max=255"`
}

// MessageResponse простой ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}
