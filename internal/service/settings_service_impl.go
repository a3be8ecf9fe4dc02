package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcrowhurst/telos/internal/repository"
)

type settingsService struct {
	settings repository.SettingsRepo
}

func NewSettingsService(settings repository.SettingsRepo) SettingsService {
	return &settingsService{settings: settings}
}

func (s *settingsService) RankOrder(ctx context.Context) ([]string, error) {
	return loadRankOrder(ctx, s.settings)
}

func (s *settingsService) SetRankOrder(ctx context.Context, ranks []string) error {
	if len(ranks) == 0 {
		return fmt.Errorf("rank order cannot be empty")
	}
	seen := make(map[string]bool, len(ranks))
	cleaned := make([]string, 0, len(ranks))
	for _, r := range ranks {
		r = strings.TrimSpace(r)
		if r == "" {
			return fmt.Errorf("rank order contains an empty entry")
		}
		if seen[r] {
			return fmt.Errorf("rank %q appears twice", r)
		}
		seen[r] = true
		cleaned = append(cleaned, r)
	}
	return s.settings.Set(ctx, RankOrderKey, strings.Join(cleaned, ","))
}
