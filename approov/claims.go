package approov

import (
	"encoding/json"
	"maps"
	"time"
)

// Claims is the decoded payload of a verified Approov token.
// Numeric values are kept as json.Number so they serialize back unchanged.
type Claims map[string]any

// Subject returns the "sub" claim, or an empty string.
func (c Claims) Subject() string {
	s, _ := c["sub"].(string)
	return s
}

// DeviceID returns the Approov "did" claim, or an empty string.
func (c Claims) DeviceID() string {
	s, _ := c["did"].(string)
	return s
}

// ExpiresAt returns the "exp" claim as a time, and false when it is missing
// or not numeric.
func (c Claims) ExpiresAt() (time.Time, bool) {
	var seconds float64
	switch v := c["exp"].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		seconds = f
	case float64:
		seconds = v
	case int64:
		seconds = float64(v)
	case int:
		seconds = float64(v)
	default:
		return time.Time{}, false
	}
	return time.Unix(int64(seconds), 0), true
}

// Clone returns a shallow copy of the claims.
func (c Claims) Clone() Claims {
	if c == nil {
		return nil
	}
	return maps.Clone(c)
}
