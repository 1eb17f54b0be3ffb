// File: services/store/settings.go
package store

import (
	"context"
	"math"
	"time"

	"mendly/models"
	"mendly/utils"
)

// UpdateSettings performs the shallow merge: keys present in the patch are
// applied, absent keys preserve prior values, explicit null clears a key
// back to unlimited (caps) or its default (scalar policies).
func (s *DefaultStoreService) UpdateSettings(ctx context.Context, id string, patch map[string]interface{}) (*models.Store, error) {
	st, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applySettingsPatch(&st.Settings, patch); err != nil {
		return nil, err
	}
	st.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func applySettingsPatch(settings *models.StoreSettings, patch map[string]interface{}) error {
	for key, raw := range patch {
		switch key {
		case "maxDailyBookings":
			capVal, err := optionalCap(key, raw)
			if err != nil {
				return err
			}
			settings.MaxDailyBookings = capVal
		case "maxConcurrentBookings":
			capVal, err := optionalCap(key, raw)
			if err != nil {
				return err
			}
			settings.MaxConcurrentBookings = capVal
		case "bufferTimeMinutes":
			v, err := intOrDefault(key, raw, models.DefaultBufferTimeMinutes, 0)
			if err != nil {
				return err
			}
			settings.BufferTimeMinutes = v
		case "maxAdvanceBookingDays":
			v, err := intOrDefault(key, raw, models.DefaultMaxAdvanceBookingDays, 1)
			if err != nil {
				return err
			}
			settings.MaxAdvanceBookingDays = v
		case "cancellationDeadlineHours":
			v, err := intOrDefault(key, raw, models.DefaultCancellationDeadlineHours, 0)
			if err != nil {
				return err
			}
			settings.CancellationDeadlineHours = v
		case "allowOnlineBooking":
			b, err := boolValue(key, raw, true)
			if err != nil {
				return err
			}
			settings.AllowOnlineBooking = b
		case "requireApproval":
			b, err := boolValue(key, raw, true)
			if err != nil {
				return err
			}
			settings.RequireApproval = b
		default:
			return utils.Invalidf("unknown settings key %q", key)
		}
	}
	return nil
}

// optionalCap parses a nullable positive integer; null means unlimited.
func optionalCap(key string, raw interface{}) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	n, ok := asInt(raw)
	if !ok || n < 1 {
		return nil, utils.Invalidf("%s must be a positive integer or null", key)
	}
	return &n, nil
}

// intOrDefault parses an integer with a floor; null restores the default.
func intOrDefault(key string, raw interface{}, def, min int) (int, error) {
	if raw == nil {
		return def, nil
	}
	n, ok := asInt(raw)
	if !ok || n < min {
		return 0, utils.Invalidf("%s must be an integer >= %d or null", key, min)
	}
	return n, nil
}

func boolValue(key string, raw interface{}, def bool) (bool, error) {
	if raw == nil {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, utils.Invalidf("%s must be a boolean or null", key)
	}
	return b, nil
}

// asInt accepts the float64 that encoding/json produces for numbers,
// rejecting fractional values.
func asInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
