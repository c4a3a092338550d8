package model

// ChatMessage is one turn of the topic discovery conversation.
// IsUser distinguishes learner messages from assistant replies.
// swagger:model ChatMessage
type ChatMessage struct {
	BaseModel
	UserID  uint   `gorm:"index;not null" json:"userId"`
	Message string `gorm:"type:text;not null" json:"message"`
	IsUser  bool   `gorm:"not null" json:"isUser"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
