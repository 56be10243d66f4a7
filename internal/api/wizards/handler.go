package wizards

import (
	"strconv"

	"hogwarts-artifacts/internal/api/result"
	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/wizards"
	wizardsvc "hogwarts-artifacts/internal/services/wizards"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *wizardsvc.Service
}

func NewHandler(svc *wizardsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func wizardID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		_ = c.Error(apperr.Validation(map[string]string{param: param + " must be a positive number."}))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) FindByID(c *gin.Context) {
	id, ok := wizardID(c, "id")
	if !ok {
		return
	}
	w, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Find One Success", toDTO(*w))
}

func (h *Handler) FindAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	out := make([]WizardDTO, 0, len(list))
	for _, w := range list {
		out = append(out, toDTO(w))
	}
	result.OK(c, "Find All Success", out)
}

func (h *Handler) Add(c *gin.Context) {
	var req WizardDTO
	if err := result.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	saved, err := h.svc.Save(c.Request.Context(), &wizards.Wizard{Name: req.Name})
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Add Success", toDTO(*saved))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := wizardID(c, "id")
	if !ok {
		return
	}
	var req WizardDTO
	if err := result.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, wizards.Wizard{Name: req.Name})
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Update Success", toDTO(*updated))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := wizardID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Delete Success", nil)
}

func (h *Handler) AssignArtifact(c *gin.Context) {
	id, ok := wizardID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.AssignArtifact(c.Request.Context(), id, c.Param("artifactId")); err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Artifact Assignment Success", nil)
}
