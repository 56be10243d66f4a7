package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/users"
	"hogwarts-artifacts/internal/services/auth"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MsgOldPasswordIncorrect = "Old password is incorrect."
	MsgPasswordMismatch     = "New password and confirm new password do not match."
	MsgPasswordPolicy       = "New password does not conform to password policy."
)

// Revoker drops a user's whitelisted token so the next request must log in
// again.
type Revoker interface {
	Revoke(ctx context.Context, userID uint) error
}

type Service struct {
	db      *gorm.DB
	revoker Revoker
	cost    int
}

func NewService(db *gorm.DB, revoker Revoker, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{db: db, revoker: revoker, cost: bcryptCost}
}

func notFound(id uint) *apperr.Error {
	return apperr.NotFound("user", strconv.FormatUint(uint64(id), 10))
}

func (s *Service) FindByID(ctx context.Context, id uint) (*users.User, error) {
	var u users.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperr.Internal("find user", err)
	}
	return &u, nil
}

func (s *Service) FindAll(ctx context.Context) ([]users.User, error) {
	var list []users.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, apperr.Internal("find users", err)
	}
	return list, nil
}

func (s *Service) LoadByUsername(ctx context.Context, username string) (*users.User, error) {
	var u users.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user", username)
	}
	if err != nil {
		return nil, apperr.Internal("find user", err)
	}
	return &u, nil
}

// Save stores a new user with the password hashed.
func (s *Service) Save(ctx context.Context, u *users.User) (*users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	u.ID = 0
	u.Password = string(hash)

	err = s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Validation(map[string]string{
			"username": fmt.Sprintf("username %s is already taken.", u.Username),
		})
	}
	if err != nil {
		return nil, apperr.Internal("save user", err)
	}
	return u, nil
}

// Update applies update to user id on behalf of caller. A regular user may
// only rename themselves; an admin may also change enabled and roles, after
// which the target's token is revoked.
func (s *Service) Update(ctx context.Context, caller auth.Principal, id uint, update users.User) (*users.User, error) {
	admin := caller.IsAdmin()
	if !admin && caller.UserID != id {
		return nil, apperr.Forbidden()
	}

	var u users.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		changes := map[string]any{"username": update.Username}
		if admin {
			changes["enabled"] = update.Enabled
			changes["roles"] = update.Roles
		}
		if err := tx.Model(&u).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&u, id).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound(id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, apperr.Validation(map[string]string{
			"username": fmt.Sprintf("username %s is already taken.", update.Username),
		})
	case err != nil:
		return nil, apperr.Internal("update user", err)
	}

	if admin {
		if err := s.revoker.Revoke(ctx, id); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u users.User
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(id)
	}
	if err != nil {
		return apperr.Internal("delete user", err)
	}
	return s.revoker.Revoke(ctx, id)
}

// ChangePassword replaces the password of user id and revokes the current
// token. Checks run in order: old password, confirmation, policy.
func (s *Service) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword, confirmPassword string) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)); err != nil {
		return apperr.BadCredentials(MsgOldPasswordIncorrect)
	}
	if newPassword != confirmPassword {
		return apperr.InvalidArgument(MsgPasswordMismatch, nil)
	}
	if !users.ConformsToPolicy(newPassword) {
		return apperr.InvalidArgument(MsgPasswordPolicy, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	if err := s.db.WithContext(ctx).Model(u).Update("password", string(hash)).Error; err != nil {
		return apperr.Internal("change password", err)
	}
	return s.revoker.Revoke(ctx, id)
}
