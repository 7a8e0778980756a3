package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/sirupsen/logrus"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// payoutMethod is the Mercado Pago method used for worker transfers.
const payoutMethod = "account_money"

// IdempotencyHeader makes Mercado Pago answer a repeated create with the
// transfer it already made instead of moving the money again.
const IdempotencyHeader = "X-Idempotency-Key"

type idempotencyKeyCtx struct{}

// WithIdempotencyKey attaches the key sent on every provider call made with ctx.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

// idempotentTransport overrides the idempotency header with the key carried by
// the request context, so retries of one payment request share a key.
type idempotentTransport struct {
	base http.RoundTripper
}

func (t idempotentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if key, ok := req.Context().Value(idempotencyKeyCtx{}).(string); ok && key != "" {
		req = req.Clone(req.Context())
		req.Header.Set(IdempotencyHeader, key)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// MercadoPagoGateway disburses approved payment requests through Mercado Pago.
// In mock mode no call leaves the process and a synthetic reference is returned.
type MercadoPagoGateway struct {
	client   payment.Client
	mockMode bool
}

var _ interfaces.IPayoutGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string, mockMode bool) (*MercadoPagoGateway, error) {
	if mockMode {
		logrus.Info("[payout][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if accessToken == "" {
		logrus.Error("[payout][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	httpClient := &http.Client{Transport: idempotentTransport{base: http.DefaultTransport}}
	cfg, err := config.New(accessToken, config.WithHTTPClient(httpClient))
	if err != nil {
		logrus.WithError(err).Error("[payout][gateway] failed creating sdk config")
		return nil, err
	}
	logrus.Info("[payout][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) Disburse(ctx context.Context, p entities.PaymentRequest) (string, error) {
	log := logrus.WithFields(logrus.Fields{
		"request_id": p.ID,
		"worker_id":  p.WorkerID,
		"amount":     entities.FormatMoney(p.RequestedAmount),
	})

	if g != nil && g.mockMode {
		ref := "mock-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.WithField("provider_reference", ref).Info("[payout][gateway] mock disburse success")
		return ref, nil
	}

	if g == nil || g.client == nil {
		log.Error("[payout][gateway] gateway not configured")
		return "", ErrMercadoPagoGatewayNotConfigured
	}
	log.Info("[payout][gateway] disburse start")

	payload, err := buildPayoutPayload(p)
	if err != nil {
		log.WithError(err).Error("[payout][gateway] payload marshal failed")
		return "", err
	}

	var req payment.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		log.WithError(err).Error("[payout][gateway] payload unmarshal failed")
		return "", err
	}

	resp, err := g.client.Create(WithIdempotencyKey(ctx, p.ID), req)
	if err != nil {
		log.WithError(err).Error("[payout][gateway] sdk create failed")
		return "", err
	}
	if resp.Status == "rejected" || resp.Status == "cancelled" {
		log.WithField("provider_status", resp.Status).Warn("[payout][gateway] provider refused transfer")
		return "", fmt.Errorf("provider status %s", resp.Status)
	}

	ref := fmt.Sprintf("%d", resp.ID)
	log.WithFields(logrus.Fields{"provider_reference": ref, "provider_status": resp.Status}).
		Info("[payout][gateway] disburse success")
	return ref, nil
}

// buildPayoutPayload renders the provider request. The amount is written as a
// JSON number with exactly two decimals, and the request id travels as the
// external reference so a transfer can be matched back to its request. The
// same id is the idempotency key of the create call.
func buildPayoutPayload(p entities.PaymentRequest) (json.RawMessage, error) {
	return json.Marshal(map[string]any{
		"transaction_amount": json.Number(entities.FormatMoney(p.RequestedAmount)),
		"description":        "Worker payout " + p.ID,
		"external_reference": p.ID,
		"payment_method_id":  payoutMethod,
		"metadata": map[string]any{
			"worker_id":          p.WorkerID,
			"payment_request_id": p.ID,
		},
	})
}
