package nippo

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the member model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	DisplayName   string     `bun:"display_name" json:"display_name,omitempty"`
	AvatarURL     string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PublicUser is the view of a user safe to hand to any client
type PublicUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Public strips credential fields
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// Report is a one line journal entry for a given day
type Report struct {
	bun.BaseModel `bun:"table:reports,alias:rpt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	ReportDate    string     `bun:"report_date,notnull" json:"report_date,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	Reactions     []Reaction `bun:"rel:has-many,join:id=report_id" json:"reactions,omitempty"`
}

// CustomEmoji is a user registered emoji available as a reaction
type CustomEmoji struct {
	bun.BaseModel `bun:"table:custom_emojis,alias:emj"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	ImageURL      string     `bun:"image_url,notnull" json:"image_url,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Reaction records one user reacting to one report with one emoji.
// The (report_id, user_id, emoji_name) triple is unique so a repeat
// reaction toggles the original off.
type Reaction struct {
	bun.BaseModel `bun:"table:reactions,alias:rct"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ReportID      uuid.UUID  `bun:"report_id,notnull,type:uuid" json:"report_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	EmojiName     string     `bun:"emoji_name,notnull" json:"emoji_name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// ReactionCount is an aggregate view used by the feed
type ReactionCount struct {
	EmojiName string `json:"emoji_name"`
	Count     int    `json:"count"`
	Reacted   bool   `json:"reacted"`
}

// FeedReport is a report decorated for the daily feed
type FeedReport struct {
	ID         string          `json:"id"`
	Content    string          `json:"content"`
	ReportDate string          `json:"report_date"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	User       PublicUser      `json:"user"`
	Reactions  []ReactionCount `json:"reactions"`
}
