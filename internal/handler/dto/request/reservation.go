package request

// OpenReservationRequest carries the identity of the requester and the chat
// message the countdown is rendered into.
type OpenReservationRequest struct {
	UserID    int64  `json:"user_id" binding:"required,gt=0"`
	UserName  string `json:"user_name" binding:"required,max=128"`
	ChatID    int64  `json:"chat_id" binding:"required"`
	MessageID int64  `json:"message_id" binding:"required"`
}

type CancelReservationRequest struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
}

type RegisterRecipientRequest struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
}
