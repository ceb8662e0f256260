package reservation

// DisplayTarget points at the chat message where the countdown is rendered.
// Both identifiers come from the chat platform and never change once the
// reservation is created.
type DisplayTarget struct {
	chatID    int64
	messageID int64
}

func NewDisplayTarget(chatID, messageID int64) (DisplayTarget, error) {
	if chatID == 0 || messageID == 0 {
		return DisplayTarget{}, ErrInvalidDisplayTarget
	}
	return DisplayTarget{chatID: chatID, messageID: messageID}, nil
}

func (t DisplayTarget) ChatID() int64 {
	return t.chatID
}

func (t DisplayTarget) MessageID() int64 {
	return t.messageID
}

func (t DisplayTarget) IsZero() bool {
	return t.chatID == 0 && t.messageID == 0
}
