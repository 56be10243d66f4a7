package artifacts

import (
	"hogwarts-artifacts/internal/domain/artifacts"
)

type OwnerView struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	NumberOfArtifacts int64  `json:"numberOfArtifacts"`
}

// View is the public shape of an artifact, both over HTTP and in the
// summary prompt.
type View struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imgUrl"`
	Owner       *OwnerView `json:"owner"`
}

func NewView(a artifacts.Artifact) View {
	v := View{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		ImageURL:    a.ImageURL,
	}
	if a.Owner != nil {
		v.Owner = &OwnerView{
			ID:                a.Owner.ID,
			Name:              a.Owner.Name,
			NumberOfArtifacts: a.Owner.NumberOfArtifacts,
		}
	}
	return v
}

func NewViews(list []artifacts.Artifact) []View {
	out := make([]View, 0, len(list))
	for _, a := range list {
		out = append(out, NewView(a))
	}
	return out
}
