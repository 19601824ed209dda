package models

import "strings"

// Type identifier namespaces marking the supported sample families.
const (
	QuantityPrefix      = "HKQuantityTypeIdentifier"
	CategoryPrefix      = "HKCategoryTypeIdentifier"
	CorrelationPrefix   = "HKCorrelationTypeIdentifier"
	WorkoutType         = "HKWorkoutTypeIdentifier"
	HeartbeatSeriesType = "HKDataTypeIdentifierHeartbeatSeries"
)

// Concrete type identifiers the generator emits.
const (
	TypeHeartRate              = QuantityPrefix + "HeartRate"
	TypeRestingHeartRate       = QuantityPrefix + "RestingHeartRate"
	TypeHeartRateVariability   = QuantityPrefix + "HeartRateVariabilitySDNN"
	TypeStepCount              = QuantityPrefix + "StepCount"
	TypeDistanceWalkingRunning = QuantityPrefix + "DistanceWalkingRunning"
	TypeActiveEnergyBurned     = QuantityPrefix + "ActiveEnergyBurned"
	TypeOxygenSaturation       = QuantityPrefix + "OxygenSaturation"
	TypeRespiratoryRate        = QuantityPrefix + "RespiratoryRate"
	TypeBodyMass               = QuantityPrefix + "BodyMass"
	TypeDietaryEnergyConsumed  = QuantityPrefix + "DietaryEnergyConsumed"
	TypeDietaryWater           = QuantityPrefix + "DietaryWater"
	TypeDietaryProtein         = QuantityPrefix + "DietaryProtein"
	TypeBloodPressureSystolic  = QuantityPrefix + "BloodPressureSystolic"
	TypeBloodPressureDiastolic = QuantityPrefix + "BloodPressureDiastolic"
	TypeSleepAnalysis          = CategoryPrefix + "SleepAnalysis"
	TypeMindfulSession         = CategoryPrefix + "MindfulSession"
	TypeBloodPressure          = CorrelationPrefix + "BloodPressure"
)

// HKCategoryValueSleepAnalysis codes.
const (
	SleepValueInBed      = 0
	SleepValueAsleep     = 1
	SleepValueAwake      = 2
	SleepValueAsleepCore = 3
	SleepValueAsleepDeep = 4
	SleepValueAsleepREM  = 5
)

// HKWorkoutActivityType codes for the activities the generator picks from.
const (
	ActivityCycling          = 13
	ActivityElliptical       = 16
	ActivityStrengthTraining = 20
	ActivityHiking           = 24
	ActivityRowing           = 35
	ActivityRunning          = 37
	ActivitySwimming         = 46
	ActivityWalking          = 52
	ActivityYoga             = 57
)

// HKWorkoutEventType codes.
const (
	WorkoutEventPause  = 1
	WorkoutEventResume = 2
	WorkoutEventLap    = 3
	WorkoutEventMarker = 4
)

// Kind discriminates the supported sample families.
type Kind int

const (
	KindUnsupported Kind = iota
	KindQuantity
	KindCategory
	KindCorrelation
	KindWorkout
	KindHeartbeatSeries
)

func (k Kind) String() string {
	switch k {
	case KindQuantity:
		return "quantity"
	case KindCategory:
		return "category"
	case KindCorrelation:
		return "correlation"
	case KindWorkout:
		return "workout"
	case KindHeartbeatSeries:
		return "heartbeat-series"
	default:
		return "unsupported"
	}
}

// KindOf classifies a type name into its sample family. Exact matches are
// checked before prefixes so the workout and heartbeat identifiers never fall
// through to a prefix family.
func KindOf(typeName string) Kind {
	switch {
	case typeName == WorkoutType:
		return KindWorkout
	case typeName == HeartbeatSeriesType:
		return KindHeartbeatSeries
	case strings.HasPrefix(typeName, QuantityPrefix):
		return KindQuantity
	case strings.HasPrefix(typeName, CategoryPrefix):
		return KindCategory
	case strings.HasPrefix(typeName, CorrelationPrefix):
		return KindCorrelation
	default:
		return KindUnsupported
	}
}

// SupportedTypes returns every type identifier the generator can emit, in a
// stable order suitable for authorization requests and display.
func SupportedTypes() []string {
	return []string{
		TypeHeartRate,
		TypeRestingHeartRate,
		TypeHeartRateVariability,
		TypeStepCount,
		TypeDistanceWalkingRunning,
		TypeActiveEnergyBurned,
		TypeOxygenSaturation,
		TypeRespiratoryRate,
		TypeBodyMass,
		TypeDietaryEnergyConsumed,
		TypeDietaryWater,
		TypeDietaryProtein,
		TypeBloodPressureSystolic,
		TypeBloodPressureDiastolic,
		TypeSleepAnalysis,
		TypeMindfulSession,
		TypeBloodPressure,
		WorkoutType,
		HeartbeatSeriesType,
	}
}

// ActivityCode resolves a human-readable activity label back to its code.
func ActivityCode(name string) (int, bool) {
	switch name {
	case "cycling":
		return ActivityCycling, true
	case "elliptical":
		return ActivityElliptical, true
	case "strength-training":
		return ActivityStrengthTraining, true
	case "hiking":
		return ActivityHiking, true
	case "rowing":
		return ActivityRowing, true
	case "running":
		return ActivityRunning, true
	case "swimming":
		return ActivitySwimming, true
	case "walking":
		return ActivityWalking, true
	case "yoga":
		return ActivityYoga, true
	default:
		return 0, false
	}
}

// ActivityName returns a human-readable label for a workout activity code.
func ActivityName(code int) string {
	switch code {
	case ActivityCycling:
		return "cycling"
	case ActivityElliptical:
		return "elliptical"
	case ActivityStrengthTraining:
		return "strength-training"
	case ActivityHiking:
		return "hiking"
	case ActivityRowing:
		return "rowing"
	case ActivityRunning:
		return "running"
	case ActivitySwimming:
		return "swimming"
	case ActivityWalking:
		return "walking"
	case ActivityYoga:
		return "yoga"
	default:
		return "other"
	}
}
