package util

import "math"

// SafeConvertToUint64 clamps negative values to zero.
func SafeConvertToUint64(intValue int) uint64 {
	if intValue < 0 {
		return 0
	}
	return uint64(intValue)
}

// SafeConvertToUint16 clamps intValue into the uint16 range.
func SafeConvertToUint16(intValue int) uint16 {
	if intValue > math.MaxUint16 {
		return math.MaxUint16
	} else if intValue < 0 {
		return 0
	} else {
		return uint16(intValue)
	}
}

// FirstNonEmpty returns the first value that is not the empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
