package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Invoices() InvoiceRepository
	Logs() LogRepository
	Settings() SettingsRepository
}
