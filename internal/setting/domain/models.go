package domain

import "time"

type Setting struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
