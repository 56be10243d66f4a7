package wizards

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Wizard owns artifacts through artifacts.owner_id; the collection itself is
// never embedded, only counted.
type Wizard struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`

	NumberOfArtifacts int64 `gorm:"-:all"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountArtifacts fills NumberOfArtifacts for every given wizard with a single
// grouped query.
func CountArtifacts(db *gorm.DB, list ...*Wizard) error {
	ids := make([]uint, 0, len(list))
	for _, w := range list {
		if w != nil {
			ids = append(ids, w.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var rows []struct {
		OwnerID uint
		Total   int64
	}
	if err := db.Table("artifacts").
		Select("owner_id, COUNT(*) AS total").
		Where("owner_id IN ?", ids).
		Group("owner_id").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("count artifacts: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.OwnerID] = r.Total
	}
	for _, w := range list {
		if w != nil {
			w.NumberOfArtifacts = counts[w.ID]
		}
	}
	return nil
}
