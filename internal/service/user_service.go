package service

import (
	"fmt"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/repository"
	"simtrain_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserFilter narrows the admin user listing.
// swagger:model UserFilter
type UserFilter struct {
	Role           string
	Status         string
	Search         string
	OrganizationID uint
}

type UserService struct {
	UserRepo *repository.UserRepository
	OrgRepo  *repository.OrganizationRepository
}

func NewUserService(userRepo *repository.UserRepository, orgRepo *repository.OrganizationRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
		OrgRepo:  orgRepo,
	}
}

// GetUsers lists users with pagination. Status "active" means seen within the
// last 24 hours, mirroring the activity rule used by organization stats.
func (s *UserService) GetUsers(page, pageSize int, filter UserFilter) ([]model.User, int, error) {
	var users []model.User
	var total int64

	query := s.UserRepo.DB.Model(&model.User{}).Preload("Organization")

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.Status == "active" {
		query = query.Where("last_seen > ?", time.Now().Add(-24*time.Hour))
	} else if filter.Status == "inactive" {
		query = query.Where("last_seen IS NULL OR last_seen <= ?", time.Now().Add(-24*time.Hour))
	} else if filter.Status == "disabled" {
		query = query.Where("disabled = ?", true)
	}

	if filter.OrganizationID != 0 {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	query.Count(&total)

	offset := (page - 1) * pageSize
	query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users)

	return users, int(total), nil
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile lets a user change their own display name and, optionally,
// password. Role and organization are admin-only and handled by UpdateUser.
func (s *UserService) UpdateProfile(userID uint, name, newPassword string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if name != "" {
		user.Name = name
	}
	if newPassword != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashedPassword)
	}
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser is the admin-side update: role, organization and disabled flag
// included.
func (s *UserService) UpdateUser(user *model.User) error {
	existing, err := s.UserRepo.FindByID(user.ID)
	if err != nil {
		return util.ErrUserNotFound
	}

	if user.OrganizationID != nil {
		if _, err := s.OrgRepo.FindByID(*user.OrganizationID); err != nil {
			return util.ErrOrganizationNotFound
		}
	}

	existing.Name = user.Name
	existing.Email = user.Email
	existing.Role = user.Role
	existing.OrganizationID = user.OrganizationID
	existing.Disabled = user.Disabled
	existing.UpdatedAt = time.Now()

	return s.UserRepo.Update(existing)
}

// ResetPassword issues a temporary password and returns it in plain text so
// the admin can pass it on. The user is expected to change it on next login.
func (s *UserService) ResetPassword(userID uint) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	tempPassword := generateTempPassword()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user.Password = string(hashedPassword)
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}

	return tempPassword, nil
}

func (s *UserService) DisableUser(id uint, disable bool) error {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return util.ErrUserNotFound
	}

	user.Disabled = disable
	user.UpdatedAt = time.Now()

	return s.UserRepo.Update(user)
}

func generateTempPassword() string {
	return fmt.Sprintf("temp%d", time.Now().UnixNano()%100000000)
}
