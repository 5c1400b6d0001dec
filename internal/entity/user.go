package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account able to own reports. Password holds the bcrypt hash and
// is never serialized to JSON.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	Password           string             `bson:"password" json:"-"`
	PreferredLanguage  string             `bson:"preferredLanguage,omitempty" json:"preferredLanguage,omitempty"`
	AccessibilityNeeds string             `bson:"accessibilityNeeds,omitempty" json:"accessibilityNeeds,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ChatMessage is one prior turn of a conversation, replayed by the client on
// every request. Role is "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
