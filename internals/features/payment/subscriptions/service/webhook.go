package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"letme_backend/internals/features/payment/subscriptions/dto"
	"letme_backend/internals/features/payment/subscriptions/model"
	"letme_backend/internals/helpers/apperror"
)

const (
	txCapture    = "capture"
	txSettlement = "settlement"
	txPending    = "pending"
	txDeny       = "deny"
	txCancel     = "cancel"
	txExpire     = "expire"
	txFailure    = "failure"

	fraudChallenge = "challenge"
)

// HandleWebhook proses notifikasi pembayaran. Semua callback dicatat di payment_gateway_events.
// Replay untuk subscription yang sudah active/canceled diabaikan.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, p dto.WebhookPayload) error {
	now := s.now()
	raw, _ := json.Marshal(p)
	ev := &model.PaymentGatewayEvent{
		GatewayEventProvider:          model.GatewayProviderMidtrans,
		GatewayEventOrderID:           p.OrderID,
		GatewayEventTransactionStatus: p.TransactionStatus,
		GatewayEventPayload:           datatypes.JSON(raw),
		GatewayEventStatus:            model.GatewayEventReceived,
		GatewayEventReceivedAt:        now,
	}
	if p.SignatureKey != "" {
		sig := p.SignatureKey
		ev.GatewayEventSignature = &sig
	}
	if err := s.store.CreateGatewayEvent(ctx, ev); err != nil {
		return err
	}
	log := s.log.WithFields(logrus.Fields{"order_id": p.OrderID, "transaction_status": p.TransactionStatus})

	if !s.provider.VerifySignature(p.OrderID, p.StatusCode, p.GrossAmount, p.SignatureKey) {
		s.finishEvent(ctx, ev, model.GatewayEventFailed, "invalid signature")
		log.Warn("webhook signature mismatch")
		return apperror.Forbidden("Signature tidak valid")
	}

	var (
		activated  *model.Subscription
		superseded []string
		outcome    = model.GatewayEventIgnored
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		sub, err := tx.FindSubscriptionByOrderID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if sub == nil {
			return nil
		}
		ev.GatewayEventSubscriptionID = &sub.SubscriptionID
		if sub.SubscriptionStatus != model.SubscriptionPending {
			return nil
		}

		switch p.TransactionStatus {
		case txCapture, txSettlement:
			if p.TransactionStatus == txCapture && p.FraudStatus == fraudChallenge {
				return nil
			}
			pkg, err := tx.GetPackage(ctx, sub.SubscriptionPackageID)
			if err != nil {
				return err
			}
			start := now
			end := pkg.PeriodEnd(start)
			// upgrade prorata: akhir periode diwarisi dari subscription sebelumnya
			if sub.SubscriptionPeriodEnd != nil && sub.SubscriptionPeriodEnd.After(now) {
				end = *sub.SubscriptionPeriodEnd
			}
			sub.SubscriptionStatus = model.SubscriptionActive
			sub.SubscriptionPeriodStart = &start
			sub.SubscriptionPeriodEnd = &end
			if err := tx.SaveSubscription(ctx, sub); err != nil {
				return err
			}
			superseded, err = tx.CancelOtherActive(ctx, sub.SubscriptionCompanyID, sub.SubscriptionID, now)
			if err != nil {
				return err
			}
			activated = sub
			outcome = model.GatewayEventProcessed

		case txDeny, txCancel, txExpire, txFailure:
			sub.SubscriptionStatus = model.SubscriptionCanceled
			sub.SubscriptionCanceledAt = &now
			if err := tx.SaveSubscription(ctx, sub); err != nil {
				return err
			}
			outcome = model.GatewayEventProcessed

		case txPending:
		}
		return nil
	})
	if err != nil {
		s.finishEvent(ctx, ev, model.GatewayEventFailed, err.Error())
		return err
	}
	s.finishEvent(ctx, ev, outcome, "")
	log.WithField("outcome", outcome).Info("webhook handled")

	if activated != nil {
		s.disableSuperseded(activated, superseded)
		s.startRecurring(ctx, activated, p.SavedTokenID)
		s.dispatchInvites(activated.SubscriptionID)
	}
	return nil
}

// disableSuperseded hentikan tagihan berulang milik subscription lama yang baru saja ditutup.
func (s *SubscriptionService) disableSuperseded(keep *model.Subscription, providerIDs []string) {
	for _, pid := range providerIDs {
		if keep.SubscriptionProviderID != nil && *keep.SubscriptionProviderID == pid {
			continue
		}
		s.async(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.provider.DisableSubscription(ctx, pid); err != nil {
				s.log.WithError(err).WithField("provider_id", pid).Error("disable superseded subscription")
			}
		})
	}
}

func (s *SubscriptionService) finishEvent(ctx context.Context, ev *model.PaymentGatewayEvent, status, msg string) {
	at := s.now()
	ev.GatewayEventStatus = status
	ev.GatewayEventProcessedAt = &at
	if msg != "" {
		ev.GatewayEventError = &msg
	}
	if err := s.store.SaveGatewayEvent(ctx, ev); err != nil {
		s.log.WithError(err).WithField("gateway_event_id", ev.GatewayEventID).Warn("save gateway event")
	}
}

// startRecurring daftarkan langganan berulang di provider setelah pembayaran pertama (kartu tersimpan).
// Gagal di sini tidak membatalkan aktivasi.
func (s *SubscriptionService) startRecurring(ctx context.Context, sub *model.Subscription, savedToken string) {
	if savedToken == "" || (sub.SubscriptionProviderID != nil && *sub.SubscriptionProviderID != "") {
		return
	}
	pkg, err := s.store.GetPackage(ctx, sub.SubscriptionPackageID)
	if err != nil {
		s.log.WithError(err).Warn("recurring: load package")
		return
	}
	start := pkg.PeriodEnd(*sub.SubscriptionPeriodStart)
	if sub.SubscriptionPeriodEnd != nil {
		start = *sub.SubscriptionPeriodEnd
	}
	pid, err := s.provider.CreateSubscription(ctx, RecurringRequest{
		Name:     "LETME-" + sub.SubscriptionOrderID,
		Amount:   pkg.PackagePrice,
		Interval: pkg.PackageInterval,
		Token:    savedToken,
		Start:    start.Truncate(time.Minute),
	})
	if err != nil {
		s.log.WithError(err).WithField("subscription_id", sub.SubscriptionID).Error("create recurring subscription")
		return
	}
	sub.SubscriptionProviderID = &pid
	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		s.log.WithError(err).WithField("provider_id", pid).Error("save provider id")
	}
}
