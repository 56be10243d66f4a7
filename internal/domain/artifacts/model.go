package artifacts

import (
	"time"

	"hogwarts-artifacts/internal/domain/wizards"
)

type Artifact struct {
	ID          string `gorm:"type:varchar(32);primaryKey"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"column:image_url"`

	OwnerID *uint           `gorm:"index"`
	Owner   *wizards.Wizard `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Artifact) HasOwner() bool {
	return a.OwnerID != nil
}

// SortColumns maps the sortable request fields to qualified columns, so that
// joins on wizards never make ORDER BY ambiguous.
var SortColumns = map[string]string{
	"id":          "artifacts.id",
	"name":        "artifacts.name",
	"description": "artifacts.description",
}
