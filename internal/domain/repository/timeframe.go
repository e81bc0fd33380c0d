package repository

import (
	"strings"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

// NormalizeTimeFrame trims a raw filter value. Empty means no timeframe
// filter; anything else must match exactly.
func NormalizeTimeFrame(s string) models.TimeFrame {
	return models.TimeFrame(strings.TrimSpace(s))
}
