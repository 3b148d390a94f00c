package repository

import (
	"context"

	"tillpoint/internal/model"
	"tillpoint/internal/store"
)

// SettingsRepository covers the small preference keys: settings, darkMode,
// externalServices and the cloud backup record.
type SettingsRepository interface {
	Settings(ctx context.Context) model.Settings
	PutSettings(ctx context.Context, s model.Settings) error
	DarkMode(ctx context.Context) bool
	PutDarkMode(ctx context.Context, enabled bool) error
	ExternalServices(ctx context.Context) model.ExternalServices
	PutExternalServices(ctx context.Context, e model.ExternalServices) error
	CloudBackup(ctx context.Context) model.CloudBackupInfo
	PutCloudBackup(ctx context.Context, b model.CloudBackupInfo) error
}

type settingsRepo struct{ state *store.State }

func NewSettingsRepository(state *store.State) SettingsRepository {
	return &settingsRepo{state: state}
}

func (r *settingsRepo) Settings(_ context.Context) model.Settings {
	var s model.Settings
	r.state.View(func(d *store.Data) { s = d.Settings })
	return s
}

func (r *settingsRepo) PutSettings(_ context.Context, s model.Settings) error {
	r.state.Update(func(d *store.Data) []string {
		d.Settings = s
		return []string{store.KeySettings}
	})
	return nil
}

func (r *settingsRepo) DarkMode(_ context.Context) bool {
	var v bool
	r.state.View(func(d *store.Data) { v = d.DarkMode })
	return v
}

func (r *settingsRepo) PutDarkMode(_ context.Context, enabled bool) error {
	r.state.Update(func(d *store.Data) []string {
		d.DarkMode = enabled
		return []string{store.KeyDarkMode}
	})
	return nil
}

func (r *settingsRepo) ExternalServices(_ context.Context) model.ExternalServices {
	var e model.ExternalServices
	r.state.View(func(d *store.Data) { e = d.External })
	return e
}

func (r *settingsRepo) PutExternalServices(_ context.Context, e model.ExternalServices) error {
	r.state.Update(func(d *store.Data) []string {
		d.External = e
		return []string{store.KeyExternalServices}
	})
	return nil
}

func (r *settingsRepo) CloudBackup(_ context.Context) model.CloudBackupInfo {
	var b model.CloudBackupInfo
	r.state.View(func(d *store.Data) { b = d.CloudBackup })
	return b
}

func (r *settingsRepo) PutCloudBackup(_ context.Context, b model.CloudBackupInfo) error {
	r.state.Update(func(d *store.Data) []string {
		d.CloudBackup = b
		return []string{store.KeyCloudBackup}
	})
	return nil
}
