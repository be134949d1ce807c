package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProfileGoals is the legacy names-by-bucket structure kept on the
// profile for the selection screen and the assistant's context. The
// goal service's backfill turns these bare names into ledger records.
type ProfileGoals struct {
	ShortTerm  []string `json:"short_term"`
	MediumTerm []string `json:"medium_term"`
	LongTerm   []string `json:"long_term"`
}

func (g ProfileGoals) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *ProfileGoals) Scan(value interface{}) error {
	if value == nil {
		*g = ProfileGoals{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	default:
		return errors.New("cannot scan profile goals column")
	}
}

type User struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	Email          string       `gorm:"uniqueIndex;not null" json:"email"`
	FullName       string       `json:"full_name"`
	RiskProfile    string       `json:"risk_profile,omitempty"`
	FinancialGoals ProfileGoals `gorm:"type:jsonb" json:"financial_goals"`
	RefreshToken   string       `gorm:"column:google_refresh_token" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (User) TableName() string {
	return "user_profiles"
}
