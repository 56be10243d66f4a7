package wizards

import (
	"context"
	"errors"
	"strconv"

	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/artifacts"
	"hogwarts-artifacts/internal/domain/wizards"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func notFound(id uint) *apperr.Error {
	return apperr.NotFound("wizard", strconv.FormatUint(uint64(id), 10))
}

func (s *Service) FindByID(ctx context.Context, id uint) (*wizards.Wizard, error) {
	var w wizards.Wizard
	err := s.db.WithContext(ctx).First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperr.Internal("find wizard", err)
	}
	if err := wizards.CountArtifacts(s.db.WithContext(ctx), &w); err != nil {
		return nil, apperr.Internal("find wizard", err)
	}
	return &w, nil
}

func (s *Service) FindAll(ctx context.Context) ([]wizards.Wizard, error) {
	var list []wizards.Wizard
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, apperr.Internal("find wizards", err)
	}
	ptrs := make([]*wizards.Wizard, len(list))
	for i := range list {
		ptrs[i] = &list[i]
	}
	if err := wizards.CountArtifacts(s.db.WithContext(ctx), ptrs...); err != nil {
		return nil, apperr.Internal("find wizards", err)
	}
	return list, nil
}

// Save creates a wizard with no artifacts; the id is assigned by the store.
func (s *Service) Save(ctx context.Context, w *wizards.Wizard) (*wizards.Wizard, error) {
	w.ID = 0
	w.NumberOfArtifacts = 0
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, apperr.Internal("save wizard", err)
	}
	return w, nil
}

// Update renames a wizard. Artifact membership is left alone.
func (s *Service) Update(ctx context.Context, id uint, update wizards.Wizard) (*wizards.Wizard, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old wizards.Wizard
		if err := tx.First(&old, id).Error; err != nil {
			return err
		}
		return tx.Model(&old).Update("name", update.Name).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperr.Internal("update wizard", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a wizard after releasing every artifact it owns. The
// artifacts themselves survive without an owner.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w wizards.Wizard
		if err := tx.First(&w, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&artifacts.Artifact{}).
			Where("owner_id = ?", id).
			Update("owner_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&w).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(id)
	}
	if err != nil {
		return apperr.Internal("delete wizard", err)
	}
	return nil
}

// AssignArtifact moves an artifact to wizardID, detaching it from any
// previous owner in the same step.
func (s *Service) AssignArtifact(ctx context.Context, wizardID uint, artifactID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a artifacts.Artifact
		if err := tx.First(&a, "id = ?", artifactID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("artifact", artifactID)
			}
			return err
		}

		var w wizards.Wizard
		if err := tx.First(&w, wizardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(wizardID)
			}
			return err
		}

		return tx.Model(&a).Update("owner_id", w.ID).Error
	})
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal("assign artifact", err)
}
