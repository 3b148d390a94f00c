package service

import (
	"context"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"

	"github.com/rs/zerolog/log"
)

// SettingsService applies partial updates to the preference keys and flushes
// each change immediately, matching the save-on-toggle behavior of the UI.
type SettingsService interface {
	Settings(ctx context.Context) model.Settings
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (model.Settings, error)
	DarkMode(ctx context.Context) bool
	SetDarkMode(ctx context.Context, enabled bool) error
	ExternalServices(ctx context.Context) model.ExternalServices
	UpdateExternalServices(ctx context.Context, req dto.ExternalServicesRequest) (model.ExternalServices, error)
	CloudBackup(ctx context.Context) model.CloudBackupInfo
}

type settingsService struct {
	repo  repository.SettingsRepository
	state *store.State
}

func NewSettingsService(repo repository.SettingsRepository, state *store.State) SettingsService {
	return &settingsService{repo: repo, state: state}
}

func (s *settingsService) Settings(ctx context.Context) model.Settings {
	return s.repo.Settings(ctx)
}

func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (model.Settings, error) {
	cur := s.repo.Settings(ctx)
	if req.StoreName != nil {
		cur.StoreName = *req.StoreName
	}
	if req.Currency != nil {
		cur.Currency = *req.Currency
	}
	if req.TaxEnabled != nil {
		cur.TaxEnabled = *req.TaxEnabled
	}
	if err := s.repo.PutSettings(ctx, cur); err != nil {
		return cur, err
	}
	s.flush(ctx)
	return cur, nil
}

func (s *settingsService) DarkMode(ctx context.Context) bool {
	return s.repo.DarkMode(ctx)
}

func (s *settingsService) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := s.repo.PutDarkMode(ctx, enabled); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func (s *settingsService) ExternalServices(ctx context.Context) model.ExternalServices {
	return s.repo.ExternalServices(ctx)
}

func (s *settingsService) UpdateExternalServices(ctx context.Context, req dto.ExternalServicesRequest) (model.ExternalServices, error) {
	cur := s.repo.ExternalServices(ctx)
	if req.ReceiptEmailEnabled != nil {
		cur.ReceiptEmailEnabled = *req.ReceiptEmailEnabled
	}
	if req.CloudBackupEnabled != nil {
		cur.CloudBackupEnabled = *req.CloudBackupEnabled
	}
	if err := s.repo.PutExternalServices(ctx, cur); err != nil {
		return cur, err
	}
	s.flush(ctx)
	return cur, nil
}

func (s *settingsService) CloudBackup(ctx context.Context) model.CloudBackupInfo {
	return s.repo.CloudBackup(ctx)
}

func (s *settingsService) flush(ctx context.Context) {
	if err := s.state.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("settings: flush failed")
	}
}
