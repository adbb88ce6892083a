package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"letme_backend/internals/helpers/apperror"
)

const midtransTimeLayout = "2006-01-02 15:04:05 -0700"

// MidtransProvider PaymentProvider di atas Snap (checkout) + Core API (recurring).
// Client di-inject per instance, bukan global.
type MidtransProvider struct {
	snap      snap.Client
	core      coreapi.Client
	serverKey string
}

func NewMidtransProvider(serverKey string, production bool) *MidtransProvider {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	p := &MidtransProvider{serverKey: serverKey}
	p.snap.New(serverKey, env)
	p.core.New(serverKey, env)
	return p
}

var _ PaymentProvider = (*MidtransProvider)(nil)

// gateway pakai rupiah utuh; sistem menyimpan cents
func toGross(cents int64) int64 { return (cents + 50) / 100 }

func (p *MidtransProvider) CreateCheckout(_ context.Context, req CheckoutRequest) (*Checkout, error) {
	if req.Amount <= 0 {
		return nil, apperror.Validation("Nominal pembayaran tidak valid")
	}
	gross := toGross(req.Amount)
	sr := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true, SaveCard: true},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.ItemID,
			Price: gross,
			Qty:   1,
			Name:  truncate(req.ItemName, 50),
		}},
	}
	resp, mErr := p.snap.CreateTransaction(sr)
	if mErr != nil {
		return nil, apperror.External("Gagal membuat sesi pembayaran", mErr)
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (p *MidtransProvider) subscriptionReq(req RecurringRequest) *coreapi.SubscriptionReq {
	sched := coreapi.ScheduleDetails{Interval: 1, IntervalUnit: "month"}
	if req.Interval == "year" {
		sched.Interval = 12
	}
	if !req.Start.IsZero() {
		sched.StartTime = req.Start.Format(midtransTimeLayout)
	}
	sr := &coreapi.SubscriptionReq{
		Name:        truncate(req.Name, 40),
		Amount:      toGross(req.Amount),
		Currency:    "IDR",
		PaymentType: "credit_card",
		Token:       req.Token,
		Schedule:    sched,
	}
	if req.CustomerEmail != "" {
		sr.CustomerDetails = &midtrans.CustomerDetails{FName: req.CustomerName, Email: req.CustomerEmail}
	}
	return sr
}

func (p *MidtransProvider) CreateSubscription(_ context.Context, req RecurringRequest) (string, error) {
	resp, mErr := p.core.CreateSubscription(p.subscriptionReq(req))
	if mErr != nil {
		return "", apperror.External("Gagal membuat langganan", mErr)
	}
	return resp.ID, nil
}

func (p *MidtransProvider) GetSubscription(_ context.Context, providerID string) (string, error) {
	resp, mErr := p.core.GetSubscription(providerID)
	if mErr != nil {
		return "", apperror.External("Gagal membaca langganan", mErr)
	}
	return resp.Status, nil
}

func (p *MidtransProvider) UpdateSubscription(_ context.Context, providerID string, req RecurringRequest) error {
	if _, mErr := p.core.UpdateSubscription(providerID, p.subscriptionReq(req)); mErr != nil {
		return apperror.External("Gagal mengubah langganan", mErr)
	}
	return nil
}

func (p *MidtransProvider) DisableSubscription(_ context.Context, providerID string) error {
	if _, mErr := p.core.DisableSubscription(providerID); mErr != nil {
		return apperror.External("Gagal menonaktifkan langganan", mErr)
	}
	return nil
}

// VerifySignature SHA512(order_id + status_code + gross_amount + server_key).
func (p *MidtransProvider) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return VerifyMidtransSignature(p.serverKey, orderID, statusCode, grossAmount, signature)
}

func VerifyMidtransSignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	if signature == "" || serverKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	want := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(signature))) == 1
}

// truncate potong per rune agar nama multibyte tidak terbelah.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
