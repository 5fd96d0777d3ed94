package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	HeaderSvixID        = "svix-id"
	HeaderSvixTimestamp = "svix-timestamp"
	HeaderSvixSignature = "svix-signature"

	webhookTolerance = 5 * time.Minute
)

var (
	ErrWebhookSecretMissing  = errors.New("webhook secret not configured")
	ErrWebhookHeadersMissing = errors.New("missing webhook signature headers")
	ErrWebhookSignature      = errors.New("invalid clerk webhook signature")
	ErrWebhookTimestamp      = errors.New("clerk webhook timestamp too old")
)

// VerifyWebhook checks a svix-signed webhook body. The signature is checked
// before the timestamp window, which is measured against now.
func VerifyWebhook(secret string, header http.Header, body []byte, now time.Time) error {
	if secret == "" {
		return ErrWebhookSecretMissing
	}

	ts := header.Get(HeaderSvixTimestamp)
	if header.Get(HeaderSvixID) == "" || ts == "" || header.Get(HeaderSvixSignature) == "" {
		return ErrWebhookHeadersMissing
	}

	wh, err := newWebhook(secret)
	if err != nil {
		return ErrWebhookSignature
	}
	if err := wh.VerifyIgnoringTimestamp(body, header); err != nil {
		return ErrWebhookSignature
	}

	sent, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrWebhookTimestamp
	}
	if d := now.Sub(time.Unix(sent, 0)); d > webhookTolerance || d < -webhookTolerance {
		return ErrWebhookTimestamp
	}
	return nil
}

// SignWebhook returns the base64 v1 signature for id.timestamp.body, without
// the "v1," version prefix.
func SignWebhook(secret, id string, timestamp time.Time, body []byte) (string, error) {
	wh, err := newWebhook(secret)
	if err != nil {
		return "", err
	}
	sig, err := wh.Sign(id, timestamp, body)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(sig, "v1,"), nil
}

// newWebhook decodes whsec_ prefixed secrets as base64 and uses any other
// secret as raw key bytes.
func newWebhook(secret string) (*svix.Webhook, error) {
	if strings.HasPrefix(secret, "whsec_") {
		return svix.NewWebhook(secret)
	}
	return svix.NewWebhookRaw([]byte(secret))
}
