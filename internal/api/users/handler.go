package users

import (
	"strconv"

	"hogwarts-artifacts/internal/api/result"
	"hogwarts-artifacts/internal/app/http/middleware"
	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/users"
	usersvc "hogwarts-artifacts/internal/services/users"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *usersvc.Service
}

func NewHandler(svc *usersvc.Service) *Handler {
	return &Handler{svc: svc}
}

// UserID reads the :id path parameter.
func UserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		_ = c.Error(apperr.Validation(map[string]string{"id": "id must be a positive number."}))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) FindAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	out := make([]UserDTO, 0, len(list))
	for _, u := range list {
		out = append(out, ToDTO(u))
	}
	result.OK(c, "Find All Success", out)
}

func (h *Handler) FindByID(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		return
	}
	u, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Find One Success", ToDTO(*u))
}

func (h *Handler) Add(c *gin.Context) {
	var req CreateUserRequest
	if err := result.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	saved, err := h.svc.Save(c.Request.Context(), &users.User{
		Username: req.Username,
		Password: req.Password,
		Enabled:  req.Enabled,
		Roles:    req.Roles,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Add Success", ToDTO(*saved))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		return
	}
	var req UserDTO
	if err := result.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	caller, ok := middleware.PrincipalFrom(c)
	if !ok {
		_ = c.Error(apperr.Forbidden())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), caller, id, users.User{
		Username: req.Username,
		Enabled:  req.Enabled,
		Roles:    req.Roles,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Update Success", ToDTO(*updated))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Delete Success", nil)
}
