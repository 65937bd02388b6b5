package service

import (
	"checkout/sheet"

	"gorm.io/gorm"
)

// Services aggregates all business services
type Services struct {
	Activity  *ActivityService
	Account   *AccountService
	Worksheet *WorksheetService
}

// GlobalServices is the shared services instance
var GlobalServices *Services

// InitServices wires the services together.
func InitServices(db *gorm.DB, logSheet sheet.LogSheet, apiKey string, apiKeyRequired bool) {
	activity := NewActivityService(logSheet, apiKey, apiKeyRequired)
	account := NewAccountService(db)
	GlobalServices = &Services{
		Activity:  activity,
		Account:   account,
		Worksheet: NewWorksheetService(account, activity),
	}
}
