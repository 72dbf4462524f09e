package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel mirrors the 'users' table. The identifier is generated
// application-side just before insert and is immutable afterwards.
// There is no soft-delete column: account deletion removes the row.
type UserModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username     string     `gorm:"type:varchar(30);uniqueIndex;not null"`
	Email        string     `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string     `gorm:"type:text;not null"`
	FirstName    *string    `gorm:"type:varchar(60)"`
	LastName     *string    `gorm:"type:varchar(60)"`
	Avatar       *string    `gorm:"type:text"`
	About        *string    `gorm:"type:text"`
	DateOfBirth  *time.Time `gorm:"type:date"`
	IsSuperuser  bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time  `gorm:"not null;default:now()"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate assigns the identifier when the caller did not provide one.
func (m *UserModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
