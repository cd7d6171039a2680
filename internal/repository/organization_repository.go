package repository

import (
	"simtrain_backend/internal/model"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

func (r *OrganizationRepository) Create(org *model.Organization) error {
	return r.DB.Create(org).Error
}

func (r *OrganizationRepository) FindByID(id uint) (*model.Organization, error) {
	var org model.Organization
	err := r.DB.First(&org, id).Error
	return &org, err
}

func (r *OrganizationRepository) FindByName(name string) (*model.Organization, error) {
	var org model.Organization
	err := r.DB.Where("name = ?", name).First(&org).Error
	return &org, err
}

func (r *OrganizationRepository) FindAll() ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.DB.Order("name ASC").Find(&orgs).Error
	return orgs, err
}
