package service

import (
	"checkout/models"
	"fmt"

	"gorm.io/gorm"
)

// AccountService manages the shared account records backing the worksheets.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService constructs an account service
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// List lists all accounts ordered by account ID
func (s *AccountService) List() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("account_id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Get fetches an account by its external account ID
func (s *AccountService) Get(accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, "account_id = ?", accountID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("account not found: %s", accountID)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// Create seeds a new account record
func (s *AccountService) Create(req models.AccountCreate) (*models.Account, error) {
	req.Normalize()

	if req.AccountID == "" {
		return nil, fmt.Errorf("account_id is required")
	}

	account := models.Account{
		AccountID:   req.AccountID,
		DisplayName: req.DisplayName,
	}
	if account.DisplayName == "" {
		account.DisplayName = account.AccountID
	}

	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

// Delete removes an account record
func (s *AccountService) Delete(accountID string) error {
	result := s.db.Where("account_id = ?", accountID).Delete(&models.Account{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}
