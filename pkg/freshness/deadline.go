package freshness

import (
	"math"
	"time"
)

const (
	Day  = 24 * time.Hour
	Hour = time.Hour
)

var baseDurations = map[Environment][4]time.Duration{
	EnvironmentFridge:   {0, 4 * Day, 3 * Day, 1 * Day},
	EnvironmentFreezer:  {0, 90 * Day, 60 * Day, 7 * Day},
	EnvironmentRoomTemp: {0, 4 * Hour, 2 * Hour, 0},
}

// BaseDuration is the shelf life before any container adjustment. Levels 4
// and above are not storable. An unknown environment uses the fridge row.
func BaseDuration(level Level, env Environment) time.Duration {
	row, ok := baseDurations[env]
	if !ok {
		row = baseDurations[EnvironmentFridge]
	}
	if level < LevelExcellent || level > LevelAverage {
		return 0
	}
	return row[level]
}

// ContainerMultiplier scales the base duration. A box protects slightly
// better in every environment; unprotected meat in the freezer suffers
// freezer burn and keeps half as long.
func ContainerMultiplier(env Environment, container Container) float64 {
	if !env.Valid() {
		return 1.0
	}
	switch container {
	case ContainerBox:
		return 1.1
	case ContainerNone:
		if env == EnvironmentFreezer {
			return 0.5
		}
		return 0.8
	default:
		return 1.0
	}
}

// StorageDuration is how long meat of the given level keeps in the given setup.
func StorageDuration(level Level, env Environment, container Container) time.Duration {
	base := BaseDuration(level, env)
	if base == 0 {
		return 0
	}
	ms := math.Round(float64(base.Milliseconds()) * ContainerMultiplier(env, container))
	return time.Duration(ms) * time.Millisecond
}

// ComputeDeadline returns reference plus the storage duration. A zero
// reference means now.
func ComputeDeadline(level Level, env Environment, container Container, reference time.Time) time.Time {
	if reference.IsZero() {
		reference = time.Now()
	}
	return reference.Add(StorageDuration(level, env, container))
}

// DeadlineFromNow is ComputeDeadline with the current time as reference.
func DeadlineFromNow(level Level, env Environment, container Container) time.Time {
	return ComputeDeadline(level, env, container, time.Now())
}

// ComputeDeadlineMillis works on epoch milliseconds, the wire format used by
// the scan API. The reference is taken literally, so 0 means the epoch.
func ComputeDeadlineMillis(level Level, env Environment, container Container, referenceMillis int64) int64 {
	return referenceMillis + StorageDuration(level, env, container).Milliseconds()
}
