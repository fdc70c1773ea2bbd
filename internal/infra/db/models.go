package db

import "time"

type ArtifactModel struct {
	ID        string    `gorm:"primaryKey"`
	Title     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ArtifactModel) TableName() string { return "artifacts" }

type ContractOfferModel struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ArtifactID string    `gorm:"index;not null"`
	Consumer   *string   `gorm:"index"`
	RulesJSON  []byte    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (ContractOfferModel) TableName() string { return "contract_offers" }
