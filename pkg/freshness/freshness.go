// Package freshness holds the deterministic rules behind a meat scan verdict:
// storage deadlines, predicted sensory profiles and the sensory merge policy.
// Every function here is pure and total; unknown inputs fall back to the most
// conservative branch instead of failing.
package freshness

import (
	"strconv"
	"strings"
)

// Level grades raw meat from 1 (freshest) to 5 (spoiled).
type Level int

const (
	LevelExcellent Level = 1
	LevelGood      Level = 2
	LevelAverage   Level = 3
	LevelWarning   Level = 4
	LevelSpoiled   Level = 5
)

func (l Level) Valid() bool {
	return l >= LevelExcellent && l <= LevelSpoiled
}

func (l Level) String() string {
	switch l {
	case LevelExcellent:
		return "Excellent"
	case LevelGood:
		return "Good"
	case LevelAverage:
		return "Average"
	case LevelWarning:
		return "Warning"
	case LevelSpoiled:
		return "Spoiled"
	default:
		return "Unknown"
	}
}

// ParseLevel reads a level from a string. Anything that is not an integer
// becomes 0, which every rule treats as out of range.
func ParseLevel(s string) Level {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return Level(n)
}

type Environment string

const (
	EnvironmentFridge   Environment = "fridge"
	EnvironmentFreezer  Environment = "freezer"
	EnvironmentRoomTemp Environment = "room_temp"
)

func (e Environment) Valid() bool {
	switch e {
	case EnvironmentFridge, EnvironmentFreezer, EnvironmentRoomTemp:
		return true
	}
	return false
}

func ParseEnvironment(s string) Environment {
	return Environment(strings.ToLower(strings.TrimSpace(s)))
}

type Container string

const (
	ContainerBox  Container = "box"
	ContainerBag  Container = "bag"
	ContainerNone Container = "none"
)

func (c Container) Valid() bool {
	switch c {
	case ContainerBox, ContainerBag, ContainerNone:
		return true
	}
	return false
}

func ParseContainer(s string) Container {
	return Container(strings.ToLower(strings.TrimSpace(s)))
}

// SensoryData is a user reported survey, each channel 0-100, higher is worse.
type SensoryData struct {
	Smell    int `json:"smell" validate:"min=0,max=100"`
	Texture  int `json:"texture" validate:"min=0,max=100"`
	Moisture int `json:"moisture" validate:"min=0,max=100"`
	Drip     int `json:"drip" validate:"min=0,max=100"`
}

type SafetyStatus string

const (
	SafetyFresh   SafetyStatus = "fresh"
	SafetyCaution SafetyStatus = "caution"
	SafetySpoiled SafetyStatus = "spoiled"
	SafetyUnknown SafetyStatus = "unknown"
)

// SafetyStatusForLevel maps a level onto the verdict shown to the user.
func SafetyStatusForLevel(l Level) SafetyStatus {
	switch l {
	case LevelExcellent, LevelGood:
		return SafetyFresh
	case LevelAverage:
		return SafetyCaution
	case LevelWarning, LevelSpoiled:
		return SafetySpoiled
	default:
		return SafetyUnknown
	}
}
