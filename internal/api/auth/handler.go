package auth

import (
	"hogwarts-artifacts/internal/api/result"
	usersapi "hogwarts-artifacts/internal/api/users"
	"hogwarts-artifacts/internal/app/http/middleware"
	"hogwarts-artifacts/internal/apperr"
	authsvc "hogwarts-artifacts/internal/services/auth"
	usersvc "hogwarts-artifacts/internal/services/users"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth  *authsvc.Service
	users *usersvc.Service
}

func NewHandler(auth *authsvc.Service, users *usersvc.Service) *Handler {
	return &Handler{auth: auth, users: users}
}

// Login runs behind BasicAuth and hands out a fresh token.
func (h *Handler) Login(c *gin.Context) {
	u, ok := middleware.UserFrom(c)
	if !ok {
		_ = c.Error(apperr.MissingCredentials("Full authentication is required to access this resource"))
		return
	}

	info, err := h.auth.LoginInfo(c.Request.Context(), u)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result.OK(c, "User Info and JSON Web Token", gin.H{
		"userInfo": usersapi.ToDTO(*info.User),
		"token":    info.Token,
	})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := usersapi.UserID(c)
	if !ok {
		return
	}

	var body struct {
		OldPassword        string `json:"oldPassword" binding:"required"`
		NewPassword        string `json:"newPassword" binding:"required"`
		ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
	}
	if err := result.BindJSON(c, &body); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), id, body.OldPassword, body.NewPassword, body.ConfirmNewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Change Password Success", nil)
}
