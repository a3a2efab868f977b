package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	gorm.Model
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	Name         string            `json:"name" gorm:"type:varchar(255);not null"`
	Sector       string            `json:"sector" gorm:"type:varchar(100)"`
	Status       string            `json:"status" gorm:"type:varchar(50);default:'Active'"`
	Headquarters string            `json:"headquarters" gorm:"type:varchar(255)"`
	Website      string            `json:"website" gorm:"type:varchar(255)"`
	Description  string            `json:"description" gorm:"type:text"`
	Rounds       []FinancingRound  `json:"rounds,omitempty" gorm:"foreignKey:CompanyID"`
	Documents    []CompanyDocument `json:"documents,omitempty" gorm:"foreignKey:CompanyID"`
}
