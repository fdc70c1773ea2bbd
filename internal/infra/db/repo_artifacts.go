package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

type Artifact struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

type ArtifactRepository struct {
	db *gorm.DB
}

func NewArtifactRepository(db *gorm.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

func (r *ArtifactRepository) Create(ctx context.Context, artifact Artifact) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = time.Now().UTC()
	}
	model := ArtifactModel{
		ID:        artifact.ID,
		Title:     artifact.Title,
		CreatedAt: artifact.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *ArtifactRepository) GetByID(ctx context.Context, id string) (*Artifact, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ArtifactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &Artifact{ID: model.ID, Title: model.Title, CreatedAt: model.CreatedAt}, nil
}
