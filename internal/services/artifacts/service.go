package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/artifacts"
	"hogwarts-artifacts/internal/domain/paging"
	"hogwarts-artifacts/internal/domain/wizards"
	"hogwarts-artifacts/internal/infra/chat"

	"gorm.io/gorm"
)

const summaryPrompt = "Your task is to generate a short summary of a given JSON array in at most 100 words. " +
	"The summary must include the number of artifacts, each artifact's description, and the ownership information. " +
	"Don't mention that the summary is from a given JSON array."

type IDGenerator interface {
	NextID() string
}

type ImageStore interface {
	Upload(ctx context.Context, container, originalName string, data io.Reader, size int64) (string, error)
}

type ViewRecorder interface {
	ArtifactViewed(id string)
}

type Deps struct {
	DB        *gorm.DB
	IDs       IDGenerator
	Chat      chat.Client
	ChatModel string
	Images    ImageStore
	Container string
	Views     ViewRecorder
}

type Service struct {
	db        *gorm.DB
	ids       IDGenerator
	chat      chat.Client
	model     string
	images    ImageStore
	container string
	views     ViewRecorder
}

func NewService(d Deps) *Service {
	model := d.ChatModel
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &Service{
		db:        d.DB,
		ids:       d.IDs,
		chat:      d.Chat,
		model:     model,
		images:    d.Images,
		container: d.Container,
		views:     d.Views,
	}
}

func (s *Service) FindByID(ctx context.Context, id string) (*artifacts.Artifact, error) {
	var a artifacts.Artifact
	err := s.db.WithContext(ctx).Preload("Owner").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("artifact", id)
	}
	if err != nil {
		return nil, apperr.Internal("find artifact", err)
	}
	if err := wizards.CountArtifacts(s.db.WithContext(ctx), a.Owner); err != nil {
		return nil, apperr.Internal("find artifact", err)
	}
	if s.views != nil {
		s.views.ArtifactViewed(id)
	}
	return &a, nil
}

func (s *Service) FindAll(ctx context.Context) ([]artifacts.Artifact, error) {
	var list []artifacts.Artifact
	if err := s.db.WithContext(ctx).Preload("Owner").Order("id ASC").Find(&list).Error; err != nil {
		return nil, apperr.Internal("find artifacts", err)
	}
	if err := s.countOwners(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) FindPage(ctx context.Context, p paging.Pageable) (paging.Page[artifacts.Artifact], error) {
	return s.FindByCriteria(ctx, nil, p)
}

// FindByCriteria AND-s the recognized criteria (id, name, description,
// ownerName) and returns the requested page.
func (s *Service) FindByCriteria(ctx context.Context, search map[string]string, p paging.Pageable) (paging.Page[artifacts.Artifact], error) {
	pageScope, err := p.Scope(artifacts.SortColumns, "artifacts.id ASC")
	if err != nil {
		return paging.Page[artifacts.Artifact]{}, apperr.InvalidArgument(err.Error(), nil)
	}

	scopes := artifacts.Criteria(search)
	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&artifacts.Artifact{}).Scopes(scopes...)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return paging.Page[artifacts.Artifact]{}, apperr.Internal("count artifacts", err)
	}

	var list []artifacts.Artifact
	if err := query().
		Select("artifacts.*").
		Scopes(pageScope).
		Preload("Owner").
		Find(&list).Error; err != nil {
		return paging.Page[artifacts.Artifact]{}, apperr.Internal("search artifacts", err)
	}
	if err := s.countOwners(ctx, list); err != nil {
		return paging.Page[artifacts.Artifact]{}, err
	}

	return paging.NewPage(list, p, total), nil
}

// Summarize asks the chat model for a short prose summary of the given views.
func (s *Service) Summarize(ctx context.Context, views []View) (string, error) {
	if views == nil {
		views = []View{}
	}
	payload, err := json.Marshal(views)
	if err != nil {
		return "", apperr.Internal("marshal artifacts", err)
	}

	resp, err := s.chat.Generate(ctx, chat.Request{
		Model: s.model,
		Messages: []chat.Message{
			{Role: "system", Content: summaryPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return "", err
		}
		return "", apperr.Upstream(http.StatusBadGateway, err.Error(), err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", apperr.Upstream(http.StatusBadGateway, "chat completion returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// Save stores a new artifact under a freshly generated id; any id or owner
// on the input is discarded.
func (s *Service) Save(ctx context.Context, a *artifacts.Artifact) (*artifacts.Artifact, error) {
	a.ID = s.ids.NextID()
	a.OwnerID = nil
	a.Owner = nil
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, apperr.Internal("save artifact", err)
	}
	return a, nil
}

// Update changes name, description and image URL; the owner is preserved.
func (s *Service) Update(ctx context.Context, id string, update artifacts.Artifact) (*artifacts.Artifact, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old artifacts.Artifact
		if err := tx.First(&old, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&old).Updates(map[string]any{
			"name":        update.Name,
			"description": update.Description,
			"image_url":   update.ImageURL,
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("artifact", id)
	}
	if err != nil {
		return nil, apperr.Internal("update artifact", err)
	}

	var updated artifacts.Artifact
	if err := s.db.WithContext(ctx).Preload("Owner").First(&updated, "id = ?", id).Error; err != nil {
		return nil, apperr.Internal("reload artifact", err)
	}
	if err := wizards.CountArtifacts(s.db.WithContext(ctx), updated.Owner); err != nil {
		return nil, apperr.Internal("reload artifact", err)
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a artifacts.Artifact
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("artifact", id)
	}
	if err != nil {
		return apperr.Internal("delete artifact", err)
	}
	return nil
}

// UploadImage stores an artifact image and returns its public URL.
func (s *Service) UploadImage(ctx context.Context, originalName string, data io.Reader, size int64) (string, error) {
	if s.images == nil {
		return "", apperr.Internal("image storage is not configured", nil)
	}
	if originalName == "" {
		return "", apperr.Validation(map[string]string{"file": "file is required."})
	}
	url, err := s.images.Upload(ctx, s.container, originalName, data, size)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return "", err
		}
		return "", apperr.Internal(fmt.Sprintf("upload %s", originalName), err)
	}
	return url, nil
}

func (s *Service) countOwners(ctx context.Context, list []artifacts.Artifact) error {
	owners := make([]*wizards.Wizard, 0, len(list))
	for i := range list {
		if list[i].Owner != nil {
			owners = append(owners, list[i].Owner)
		}
	}
	if err := wizards.CountArtifacts(s.db.WithContext(ctx), owners...); err != nil {
		return apperr.Internal("count owner artifacts", err)
	}
	return nil
}
