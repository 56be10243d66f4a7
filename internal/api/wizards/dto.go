package wizards

import (
	"hogwarts-artifacts/internal/domain/wizards"
)

type WizardDTO struct {
	ID                uint   `json:"id"`
	Name              string `json:"name" binding:"required"`
	NumberOfArtifacts int64  `json:"numberOfArtifacts"`
}

func toDTO(w wizards.Wizard) WizardDTO {
	return WizardDTO{ID: w.ID, Name: w.Name, NumberOfArtifacts: w.NumberOfArtifacts}
}
