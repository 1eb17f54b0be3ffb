package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"mendly/utils"
)

const signaturePrefix = "sha256="

var (
	ErrBadSignature     = errors.New("webhook: signature mismatch")
	ErrStaleTimestamp   = errors.New("webhook: timestamp outside replay window")
	ErrMalformedHeaders = errors.New("webhook: malformed signature headers")
)

// Sign computes the delivery signature for a payload body.
// The result goes in the X-Signature header.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a received delivery the way a well-behaved consumer would:
// recompute the HMAC over the raw body, compare in constant time, and reject
// timestamps outside the replay window. Exported so integrators and tests can
// validate deliveries with the exact algorithm the dispatcher signs with.
func Verify(secret string, body []byte, signature, timestamp string, now time.Time) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrMalformedHeaders
	}
	skew := now.Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > utils.WebhookReplayWindow {
		return ErrStaleTimestamp
	}
	expected := Sign(secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
