package utils

import "time"

// ToTime normalizes a raw timestamp value to an absolute time.
// Recorder rows may carry their bucket start as a native time.Time, as a
// numeric epoch (seconds, integer or fractional), or as an RFC 3339 string.
// Returns the normalized time and true, or the zero time and false when the
// value cannot be interpreted as a timestamp.
func ToTime(v interface{}) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}

	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		epoch, ok := ToFloat64(v)
		if !ok {
			return time.Time{}, false
		}
		sec := int64(epoch)
		nsec := int64((epoch - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec), true
	}
}
