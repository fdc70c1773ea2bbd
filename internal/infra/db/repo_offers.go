package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// OfferRepository resolves contract offers by target artifact. It implements
// usecase.OfferResolver.
type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// OffersByArtifact returns the offers published for one artifact. A target
// that is not an absolute URI is an invalid resource; a target no artifact
// is registered under is not found. An artifact without offers yields an
// empty list, not an error.
func (r *OfferRepository) OffersByArtifact(ctx context.Context, target string) ([]domain.ContractOffer, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if parsed, err := url.Parse(target); err != nil || !parsed.IsAbs() {
		return nil, fmt.Errorf("target %q: %w", target, domain.ErrInvalidResource)
	}

	var artifact ArtifactModel
	if err := r.db.WithContext(ctx).First(&artifact, "id = ?", target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("artifact %q: %w", target, domain.ErrResourceNotFound)
		}
		return nil, err
	}

	var models []ContractOfferModel
	if err := r.db.WithContext(ctx).Where("artifact_id = ?", target).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	offers := make([]domain.ContractOffer, 0, len(models))
	for _, model := range models {
		offer, err := offerFromModel(model)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// RulesByOffer returns the rule set of one offer.
func (r *OfferRepository) RulesByOffer(_ context.Context, offer domain.ContractOffer) ([]domain.Rule, error) {
	return offer.Rules, nil
}

func (r *OfferRepository) Create(ctx context.Context, offer domain.ContractOffer) (domain.ContractOffer, error) {
	if r.db == nil {
		return domain.ContractOffer{}, errDBUnavailable
	}
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	rulesJSON, err := json.Marshal(offer.Rules)
	if err != nil {
		return domain.ContractOffer{}, err
	}
	model := ContractOfferModel{
		ID:         offer.ID,
		ArtifactID: offer.Artifact,
		RulesJSON:  rulesJSON,
		CreatedAt:  time.Now().UTC(),
	}
	if offer.Consumer != "" {
		consumer := offer.Consumer
		model.Consumer = &consumer
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.ContractOffer{}, err
	}
	return offer, nil
}

func offerFromModel(model ContractOfferModel) (domain.ContractOffer, error) {
	var rules []domain.Rule
	if err := json.Unmarshal(model.RulesJSON, &rules); err != nil {
		return domain.ContractOffer{}, fmt.Errorf("decode offer %s rules: %w", model.ID, err)
	}
	offer := domain.ContractOffer{
		ID:       model.ID,
		Artifact: model.ArtifactID,
		Rules:    rules,
	}
	if model.Consumer != nil {
		offer.Consumer = *model.Consumer
	}
	return offer, nil
}
