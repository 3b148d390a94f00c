package model

import "time"

// Settings holds store-level preferences. Tax is a fixed 10% rate applied to
// the discounted subtotal whenever TaxEnabled is true.
type Settings struct {
	StoreName  string `json:"storeName"`
	Currency   string `json:"currency"`
	TaxEnabled bool   `json:"taxEnabled"`
}

// DefaultSettings is used when no settings key exists yet or it fails to parse.
func DefaultSettings() Settings {
	return Settings{StoreName: "Tillpoint", Currency: "$", TaxEnabled: true}
}

// ExternalServices toggles the optional integrations.
type ExternalServices struct {
	ReceiptEmailEnabled bool `json:"receiptEmailEnabled"`
	CloudBackupEnabled  bool `json:"cloudBackupEnabled"`
}

// CloudBackupInfo records the outcome of the most recent backup run.
type CloudBackupInfo struct {
	LastBackupAt *time.Time `json:"lastBackupAt,omitempty"`
	LastSize     int        `json:"lastSize"` // bytes of the serialized snapshot
	Target       string     `json:"target,omitempty"`
}
