package db

import (
	"database/sql"
	"time"
)

// User is a minimal account record. Full user management belongs to the host
// application; the chat service only needs identity and the staff flag.
type User struct {
	ID        int64
	Email     string
	IsStaff   bool
	CreatedAt time.Time
}

// UserToken is an API token resolving to a user.
type UserToken struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}

// AIProvider identifies an upstream AI vendor.
type AIProvider struct {
	ID         int64
	UUID       string
	Name       string
	BaseURL    string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// AIModel is a named capability offered by a provider.
type AIModel struct {
	ID          int64
	UUID        string
	Name        string
	ProviderID  int64
	DisplayName string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// ChatSession is an ordered conversation owned by a user.
type ChatSession struct {
	ID         int64
	UUID       string
	UserID     int64
	Title      sql.NullString
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// ChatMessage is a single message within a session. Immutable once created.
type ChatMessage struct {
	ID        int64
	UUID      string
	SessionID int64
	Role      string
	Content   string
	CreatedAt time.Time
}

// UserAISettings holds the user's preferred model.
type UserAISettings struct {
	ID               int64
	UUID             string
	UserID           int64
	PreferredModelID sql.NullInt64
	CreatedAt        time.Time
	ModifiedAt       time.Time
}

// UserProviderConfig holds per-user credentials and enablement for one
// provider.
type UserProviderConfig struct {
	ID         int64
	UUID       string
	UserID     int64
	ProviderID int64
	APIKey     string
	IsEnabled  bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}
