package aurora

import (
	"math"
)

const (
	byteMax    = 255
	percentMax = 100
	degreesMax = 360
)

func mapRange(x, inMax, outMax float64) float64 {
	return x * outMax / inMax
}

// ByteToPercent converts a device byte to a 0-100 characteristic value
func ByteToPercent(b float64) int {
	return int(math.Round(mapRange(b, byteMax, percentMax)))
}

// PercentToByte is the inverse of ByteToPercent. Out of range input is not clamped.
func PercentToByte(pct float64) int {
	return int(math.Round(mapRange(pct, percentMax, byteMax)))
}

// ByteToDegrees converts a device byte to a 0-360 hue
func ByteToDegrees(b float64) float64 {
	return math.Round(mapRange(b, byteMax, degreesMax))
}

// DegreesToByte is the inverse of ByteToDegrees
func DegreesToByte(deg float64) int {
	return int(math.Round(mapRange(deg, degreesMax, byteMax)))
}

// toNumber accepts whatever numeric type the host hands to a setter
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
