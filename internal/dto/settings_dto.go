package dto

// Pointer fields distinguish "absent" from zero-value on partial updates.

type UpdateSettingsRequest struct {
	StoreName  *string `json:"storeName"`
	Currency   *string `json:"currency"`
	TaxEnabled *bool   `json:"taxEnabled"`
}

type DarkModeRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type ExternalServicesRequest struct {
	ReceiptEmailEnabled *bool `json:"receiptEmailEnabled"`
	CloudBackupEnabled  *bool `json:"cloudBackupEnabled"`
}
