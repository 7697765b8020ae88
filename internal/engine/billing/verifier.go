package billing

import (
	"crypto/hmac"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingSignature = errors.New("missing signature header")
	ErrBadSignature     = errors.New("webhook signature verification failed")
	ErrStaleSignature   = errors.New("webhook signature timestamp outside tolerance")
)

// VerifySignature checks a provider signature header of the form
// "t=<unix>,v1=<hex hmac>" against the shared secret. Multiple v1 entries
// are accepted (secret rotation); any match passes. A zero tolerance
// disables the timestamp check.
func VerifySignature(header string, payload []byte, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return ErrMissingSignature
	}

	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrBadSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return ErrBadSignature
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(timestamp, 0))
		if age < 0 {
			age = -age
		}
		if age > tolerance {
			return ErrStaleSignature
		}
	}

	expected := Sign(secret, timestamp, payload)
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return ErrBadSignature
}
