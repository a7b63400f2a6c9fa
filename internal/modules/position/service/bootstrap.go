package service

import (
	"context"
	"fmt"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

// Bootstrap поднимает таблицу позиций: сначала сохранённое состояние,
// затем явные initial_position из пар поверх него.
func Bootstrap(ctx context.Context, store *Store, repo Repository, instruments []models.Instrument) error {
	states, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load positions: %w", err)
	}
	store.Restore(states)

	seeded := 0
	for _, inst := range instruments {
		if inst.InitialPosition == "" {
			continue
		}
		pos, err := models.ParsePosition(inst.InitialPosition)
		if err != nil {
			logger.Warn("%s: %v", inst.Key(), err)
			continue
		}
		store.Seed(inst.Key(), pos)
		seeded++
	}

	logger.Info("positions: %d restored, %d seeded", len(states), seeded)
	return nil
}
