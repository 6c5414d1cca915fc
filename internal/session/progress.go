package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abhisek/wordiz/internal/store"
)

// HighestStepKey is the settings key holding the highest completed step
// index for a language.
func HighestStepKey(lang string) string {
	return fmt.Sprintf("progress.%s.highest_step", lang)
}

// HighestStep returns the highest completed step index for lang, or -1
// when none is recorded.
func HighestStep(ctx context.Context, settings store.SettingsRepo, lang string) (int, error) {
	v, ok, err := settings.ReadSetting(ctx, HighestStepKey(lang))
	if err != nil {
		return -1, err
	}
	if !ok {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1, nil
	}
	return n, nil
}

// RecordCompletion raises the highest completed step for lang to index.
// A lower index leaves the stored value alone. It reports whether the
// value changed.
func RecordCompletion(ctx context.Context, settings store.SettingsRepo, lang string, index int) (bool, error) {
	current, err := HighestStep(ctx, settings, lang)
	if err != nil {
		return false, err
	}
	if index <= current {
		return false, nil
	}
	if err := settings.WriteSetting(ctx, HighestStepKey(lang), strconv.Itoa(index)); err != nil {
		return false, err
	}
	return true, nil
}
