package mastery

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Setting keys for the mastery policy.
const (
	SettingPerKindThreshold   = "mastery.per_kind_threshold"
	SettingAggregateThreshold = "mastery.aggregate_threshold"
)

// LoadPolicy reads the policy from settings. Missing or unparsable values
// fall back to defaults and stored values are clamped into range.
func LoadPolicy(ctx context.Context, settings store.SettingsRepo) (vocab.Policy, error) {
	p := vocab.DefaultPolicy()
	if settings == nil {
		return p, nil
	}

	perKind, err := readInt(ctx, settings, SettingPerKindThreshold)
	if err != nil {
		return p, err
	}
	aggregate, err := readInt(ctx, settings, SettingAggregateThreshold)
	if err != nil {
		return p, err
	}
	p.PerKindThreshold = perKind
	p.AggregateThreshold = aggregate
	return p.Clamped(), nil
}

// SavePolicy clamps p and stores both thresholds.
func SavePolicy(ctx context.Context, settings store.SettingsRepo, p vocab.Policy) (vocab.Policy, error) {
	p = p.Clamped()
	if err := settings.WriteSetting(ctx, SettingPerKindThreshold, strconv.Itoa(p.PerKindThreshold)); err != nil {
		return p, err
	}
	if err := settings.WriteSetting(ctx, SettingAggregateThreshold, strconv.Itoa(p.AggregateThreshold)); err != nil {
		return p, err
	}
	return p, nil
}

// readInt returns 0 for missing or malformed values so Clamped applies
// the default.
func readInt(ctx context.Context, settings store.SettingsRepo, key string) (int, error) {
	v, ok, err := settings.ReadSetting(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, nil
	}
	return n, nil
}
