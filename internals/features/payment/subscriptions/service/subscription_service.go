package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/features/payment/subscriptions/dto"
	"letme_backend/internals/features/payment/subscriptions/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/mailer"
)

// Masa berlaku kode undangan.
const InviteCodeTTL = 7 * 24 * time.Hour

type SubscriptionService struct {
	store    Store
	provider PaymentProvider
	mailer   mailer.Mailer
	now      func() time.Time
	async    func(func())
	log      *logrus.Entry

	wg sync.WaitGroup
}

func NewSubscriptionService(store Store, provider PaymentProvider, m mailer.Mailer, log *logrus.Logger) *SubscriptionService {
	s := &SubscriptionService{
		store:    store,
		provider: provider,
		mailer:   m,
		now:      time.Now,
		log:      log.WithField("module", "subscriptions"),
	}
	s.async = s.goTracked
	return s
}

func (s *SubscriptionService) goTracked(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Wait tunggu email undangan & call provider di background, paling lama sampai ctx selesai.
func (s *SubscriptionService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

// WithRunner ganti cara menjalankan pekerjaan background (tests: inline).
func (s *SubscriptionService) WithRunner(run func(func())) *SubscriptionService {
	s.async = run
	return s
}

func newOrderID() string {
	return "SUB-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
}

/* ===================== Request invite ===================== */

// RequestInvite: cek kuota paket dulu, lalu pilih checkout baru, antre email, atau modifikasi langganan.
// Call ke provider selalu sebelum transaksi DB; error provider membatalkan seluruh operasi.
func (s *SubscriptionService) RequestInvite(ctx context.Context, companyID uuid.UUID, req dto.RequestInviteRequest) (*dto.InviteResult, error) {
	pkg, err := s.store.GetPackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	// dihitung dari daftar mentah; email ganda tetap memakan kuota request
	if len(req.Staff) > pkg.PackageNumberOfStaff {
		return nil, apperror.Quota(fmt.Sprintf("Paket %s maksimal %d staff", pkg.PackageName, pkg.PackageNumberOfStaff))
	}
	invites := req.ToModels(companyID)
	if !pkg.PackageIsActive {
		return nil, apperror.Validation("Paket tidak tersedia")
	}

	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.FindActiveSubscription(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if active == nil {
		return s.newCheckout(ctx, company.CompanyName, company.CompanyEmail, companyID, pkg, invites)
	}

	used, err := s.store.CountActiveMyStaff(ctx, companyID)
	if err != nil {
		return nil, err
	}
	remaining := int64(pkg.PackageNumberOfStaff) - used
	if active.SubscriptionPackageID == pkg.PackageID {
		if remaining >= int64(len(invites)) {
			return s.queueOnActive(ctx, active, invites, remaining)
		}
		// sengaja tidak lewat modify: ganti ke paket yang sama tidak menambah kuota,
		// jadi langsung Quota alih-alih charge prorata nol
		return nil, apperror.Quota(fmt.Sprintf("Sisa kuota %d staff, pilih paket yang lebih besar", remaining))
	}
	return s.modify(ctx, company.CompanyName, company.CompanyEmail, active, pkg, invites)
}

func (s *SubscriptionService) newCheckout(ctx context.Context, name, email string, companyID uuid.UUID, pkg *model.Package, invites []model.InviteMyStaff) (*dto.InviteResult, error) {
	orderID := newOrderID()
	co, err := s.provider.CreateCheckout(ctx, CheckoutRequest{
		OrderID:       orderID,
		Amount:        pkg.PackagePrice,
		ItemID:        pkg.PackageID.String(),
		ItemName:      pkg.PackageName,
		CustomerName:  name,
		CustomerEmail: email,
	})
	if err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		SubscriptionID:           uuid.New(),
		SubscriptionCompanyID:    companyID,
		SubscriptionPackageID:    pkg.PackageID,
		SubscriptionOrderID:      orderID,
		SubscriptionAmount:       pkg.PackagePrice,
		SubscriptionPaymentToken: &co.Token,
		SubscriptionRedirectURL:  &co.RedirectURL,
		SubscriptionStatus:       model.SubscriptionPending,
	}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateSubscription(ctx, sub); err != nil {
			return err
		}
		return tx.UpsertInvites(ctx, attach(invites, sub.SubscriptionID))
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"company_id": companyID, "order_id": orderID}).Info("subscription checkout created")

	return &dto.InviteResult{
		Outcome:        dto.OutcomeCheckout,
		Subscription:   sub,
		PaymentToken:   co.Token,
		RedirectURL:    co.RedirectURL,
		AmountCharged:  pkg.PackagePrice,
		InvitedCount:   len(invites),
		RemainingQuota: int64(pkg.PackageNumberOfStaff),
	}, nil
}

func (s *SubscriptionService) queueOnActive(ctx context.Context, active *model.Subscription, invites []model.InviteMyStaff, remaining int64) (*dto.InviteResult, error) {
	err := s.store.Transaction(ctx, func(tx Store) error {
		return tx.UpsertInvites(ctx, attach(invites, active.SubscriptionID))
	})
	if err != nil {
		return nil, err
	}
	s.dispatchInvites(active.SubscriptionID)

	return &dto.InviteResult{
		Outcome:        dto.OutcomeMailQueued,
		Subscription:   active,
		InvitedCount:   len(invites),
		RemainingQuota: remaining - int64(len(invites)),
	}, nil
}

func (s *SubscriptionService) modify(ctx context.Context, name, email string, active *model.Subscription, pkg *model.Package, invites []model.InviteMyStaff) (*dto.InviteResult, error) {
	prevPkg, err := s.store.GetPackage(ctx, active.SubscriptionPackageID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	charge := Prorate(active.SubscriptionAmount, pkg.PackagePrice, active.SubscriptionPeriodStart, active.SubscriptionPeriodEnd, now)

	next := &model.Subscription{
		SubscriptionID:         uuid.New(),
		SubscriptionCompanyID:  active.SubscriptionCompanyID,
		SubscriptionPackageID:  pkg.PackageID,
		SubscriptionProviderID: active.SubscriptionProviderID,
		SubscriptionOrderID:    newOrderID(),
		SubscriptionAmount:     pkg.PackagePrice,
		SubscriptionStatus:     model.SubscriptionPending,
	}
	// paket baru meneruskan periode berjalan; prorata hanya membayar sisa periode itu
	if active.SubscriptionPeriodEnd != nil && active.SubscriptionPeriodEnd.After(now) {
		end := *active.SubscriptionPeriodEnd
		next.SubscriptionPeriodEnd = &end
	}

	// checkout dulu: sesi yang tidak dibayar tidak meninggalkan state billing
	var co *Checkout
	if charge > 0 {
		co, err = s.provider.CreateCheckout(ctx, CheckoutRequest{
			OrderID:       next.SubscriptionOrderID,
			Amount:        charge,
			ItemID:        pkg.PackageID.String(),
			ItemName:      pkg.PackageName + " (prorata)",
			CustomerName:  name,
			CustomerEmail: email,
		})
		if err != nil {
			return nil, err
		}
		next.SubscriptionPaymentToken = &co.Token
		next.SubscriptionRedirectURL = &co.RedirectURL
	}

	providerUpdated := false
	if pid := active.SubscriptionProviderID; pid != nil && *pid != "" {
		err = s.provider.UpdateSubscription(ctx, *pid, RecurringRequest{
			Name:          pkg.PackageName,
			Amount:        pkg.PackagePrice,
			Interval:      pkg.PackageInterval,
			CustomerName:  name,
			CustomerEmail: email,
		})
		if err != nil {
			return nil, err
		}
		providerUpdated = true
	}

	if charge == 0 {
		start := now
		if next.SubscriptionPeriodEnd == nil {
			end := pkg.PeriodEnd(start)
			next.SubscriptionPeriodEnd = &end
		}
		next.SubscriptionStatus = model.SubscriptionActive
		next.SubscriptionPeriodStart = &start
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		active.SubscriptionStatus = model.SubscriptionCanceled
		active.SubscriptionCanceledAt = &now
		if err := tx.SaveSubscription(ctx, active); err != nil {
			return err
		}
		if err := tx.CreateSubscription(ctx, next); err != nil {
			return err
		}
		return tx.UpsertInvites(ctx, attach(invites, next.SubscriptionID))
	})
	if err != nil {
		if providerUpdated {
			s.revertProvider(active, prevPkg, name, email)
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"company_id": active.SubscriptionCompanyID,
		"from":       active.SubscriptionID,
		"to":         next.SubscriptionID,
		"charge":     charge,
	}).Info("subscription modified")

	if next.SubscriptionStatus == model.SubscriptionActive {
		s.dispatchInvites(next.SubscriptionID)
	}

	res := &dto.InviteResult{
		Outcome:       dto.OutcomeModified,
		Subscription:  next,
		AmountCharged: charge,
		InvitedCount:  len(invites),
	}
	if co != nil {
		res.PaymentToken, res.RedirectURL = co.Token, co.RedirectURL
	}
	return res, nil
}

// revertProvider kembalikan harga recurring lama kalau penyimpanan gagal setelah update provider.
func (s *SubscriptionService) revertProvider(prev *model.Subscription, prevPkg *model.Package, name, email string) {
	pid := *prev.SubscriptionProviderID
	req := RecurringRequest{
		Name:          prevPkg.PackageName,
		Amount:        prev.SubscriptionAmount,
		Interval:      prevPkg.PackageInterval,
		CustomerName:  name,
		CustomerEmail: email,
	}
	s.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.provider.UpdateSubscription(ctx, pid, req); err != nil {
			s.log.WithError(err).WithField("provider_id", pid).Error("revert provider subscription failed")
		}
	})
}

// Prorate selisih harga untuk sisa periode berjalan, dibulatkan ke cent terdekat; tidak pernah negatif.
// Tanpa periode (belum pernah aktif) dianggap sisa penuh.
func Prorate(oldPrice, newPrice int64, start, end *time.Time, now time.Time) int64 {
	diff := newPrice - oldPrice
	if diff <= 0 {
		return 0
	}
	if start == nil || end == nil || !end.After(*start) {
		return diff
	}
	if !now.Before(*end) {
		return 0
	}
	total := int64(end.Sub(*start) / time.Second)
	left := int64(end.Sub(now) / time.Second)
	if left > total {
		left = total
	}
	return (diff*left + total/2) / total
}

func attach(invites []model.InviteMyStaff, subscriptionID uuid.UUID) []model.InviteMyStaff {
	for i := range invites {
		id := subscriptionID
		invites[i].InviteSubscriptionID = &id
	}
	return invites
}

/* ===================== Queries ===================== */

func (s *SubscriptionService) ListPackages(ctx context.Context) ([]model.Package, error) {
	return s.store.ListPackages(ctx)
}

type Current struct {
	Subscription   *model.Subscription `json:"subscription"`
	Package        *model.Package      `json:"package"`
	UsedQuota      int64               `json:"used_quota"`
	RemainingQuota int64               `json:"remaining_quota"`
	// status langganan berulang di provider; kosong kalau belum ada atau gagal dibaca
	ProviderStatus string `json:"provider_status,omitempty"`
}

// Current langganan active + pemakaian kuota. Subscription nil kalau belum berlangganan.
func (s *SubscriptionService) Current(ctx context.Context, companyID uuid.UUID) (*Current, error) {
	active, err := s.store.FindActiveSubscription(ctx, companyID)
	if err != nil {
		return nil, err
	}
	used, err := s.store.CountActiveMyStaff(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := &Current{Subscription: active, UsedQuota: used}
	if active == nil {
		return out, nil
	}
	pkg, err := s.store.GetPackage(ctx, active.SubscriptionPackageID)
	if err != nil {
		return nil, err
	}
	out.Package = pkg
	out.RemainingQuota = int64(pkg.PackageNumberOfStaff) - used
	if active.SubscriptionProviderID != nil {
		// gagal baca provider tidak fatal
		st, err := s.provider.GetSubscription(ctx, *active.SubscriptionProviderID)
		if err != nil {
			s.log.WithError(err).WithField("provider_id", *active.SubscriptionProviderID).Warn("get provider subscription")
		}
		out.ProviderStatus = st
	}
	return out, nil
}

func (s *SubscriptionService) ListMyStaff(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.MyStaff, int64, error) {
	return s.store.ListMyStaff(ctx, companyID, offset, limit)
}

func (s *SubscriptionService) ListInvites(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.InviteMyStaff, int64, error) {
	return s.store.ListInvites(ctx, companyID, offset, limit)
}
