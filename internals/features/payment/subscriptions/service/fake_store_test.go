package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"letme_backend/internals/features/payment/subscriptions/model"
	userModel "letme_backend/internals/features/users/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/mailer"
)

type fakeData struct {
	packages  map[uuid.UUID]model.Package
	subs      map[uuid.UUID]model.Subscription
	myStaff   map[uuid.UUID]model.MyStaff
	invites   map[uuid.UUID]model.InviteMyStaff
	events    map[uuid.UUID]model.PaymentGatewayEvent
	companies map[uuid.UUID]userModel.CompanyProfile
	staff     map[uuid.UUID]userModel.Staff
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d fakeData) clone() fakeData {
	return fakeData{
		packages:  d.packages,
		subs:      cloneMap(d.subs),
		myStaff:   cloneMap(d.myStaff),
		invites:   cloneMap(d.invites),
		events:    d.events,
		companies: d.companies,
		staff:     d.staff,
	}
}

type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    fakeData

	failCreateSubscription error
}

func newFakeStore() *fakeStore {
	return &fakeStore{d: fakeData{
		packages:  map[uuid.UUID]model.Package{},
		subs:      map[uuid.UUID]model.Subscription{},
		myStaff:   map[uuid.UUID]model.MyStaff{},
		invites:   map[uuid.UUID]model.InviteMyStaff{},
		events:    map[uuid.UUID]model.PaymentGatewayEvent{},
		companies: map[uuid.UUID]userModel.CompanyProfile{},
		staff:     map[uuid.UUID]userModel.Staff{},
	}}
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snap := f.d.clone()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.d = snap
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) GetPackage(_ context.Context, id uuid.UUID) (*model.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.d.packages[id]
	if !ok {
		return nil, apperror.NotFound("Paket tidak ditemukan")
	}
	return &p, nil
}

func (f *fakeStore) ListPackages(context.Context) ([]model.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Package, 0, len(f.d.packages))
	for _, p := range f.d.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PackagePrice < out[j].PackagePrice })
	return out, nil
}

func (f *fakeStore) FindActiveSubscription(_ context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.d.subs {
		if s.SubscriptionCompanyID == companyID && s.SubscriptionStatus == model.SubscriptionActive {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindSubscriptionByOrderID(_ context.Context, orderID string) (*model.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.d.subs {
		if s.SubscriptionOrderID == orderID {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateSubscription(_ context.Context, s *model.Subscription) error {
	if f.failCreateSubscription != nil {
		return f.failCreateSubscription
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d.subs[s.SubscriptionID] = *s
	return nil
}

func (f *fakeStore) SaveSubscription(_ context.Context, s *model.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d.subs[s.SubscriptionID] = *s
	return nil
}

func (f *fakeStore) CancelOtherActive(_ context.Context, companyID, keepID uuid.UUID, at time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pids []string
	for id, s := range f.d.subs {
		if s.SubscriptionCompanyID == companyID && id != keepID && s.SubscriptionStatus == model.SubscriptionActive {
			s.SubscriptionStatus = model.SubscriptionCanceled
			t := at
			s.SubscriptionCanceledAt = &t
			f.d.subs[id] = s
			if s.SubscriptionProviderID != nil && *s.SubscriptionProviderID != "" {
				pids = append(pids, *s.SubscriptionProviderID)
			}
		}
	}
	return pids, nil
}

func (f *fakeStore) CountActiveMyStaff(_ context.Context, companyID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.d.myStaff {
		if m.MyStaffCompanyID == companyID && m.MyStaffStatus == model.MyStaffActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateMyStaff(_ context.Context, m *model.MyStaff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.d.myStaff {
		if x.MyStaffCompanyID == m.MyStaffCompanyID && x.MyStaffStaffID == m.MyStaffStaffID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.d.myStaff[m.MyStaffID] = *m
	return nil
}

func (f *fakeStore) ListMyStaff(_ context.Context, companyID uuid.UUID, offset, limit int) ([]model.MyStaff, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.MyStaff
	for _, m := range f.d.myStaff {
		if m.MyStaffCompanyID == companyID {
			out = append(out, m)
		}
	}
	return page(out, offset, limit), int64(len(out)), nil
}

func (f *fakeStore) UpsertInvites(_ context.Context, invites []model.InviteMyStaff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range invites {
		for id, x := range f.d.invites {
			if x.InviteCompanyID == inv.InviteCompanyID && x.InviteStaffEmail == inv.InviteStaffEmail {
				inv.InviteID = id
				inv.InviteIsJoined = x.InviteIsJoined
				break
			}
		}
		f.d.invites[inv.InviteID] = inv
	}
	return nil
}

func (f *fakeStore) ListUnmailedInvites(_ context.Context, subscriptionID uuid.UUID) ([]model.InviteMyStaff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.InviteMyStaff
	for _, inv := range f.d.invites {
		if inv.InviteSubscriptionID != nil && *inv.InviteSubscriptionID == subscriptionID &&
			inv.InviteMailedAt == nil && !inv.InviteIsJoined {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeStore) ListInvites(_ context.Context, companyID uuid.UUID, offset, limit int) ([]model.InviteMyStaff, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.InviteMyStaff
	for _, inv := range f.d.invites {
		if inv.InviteCompanyID == companyID {
			out = append(out, inv)
		}
	}
	return page(out, offset, limit), int64(len(out)), nil
}

func (f *fakeStore) ListOpenInvitesByEmail(_ context.Context, email string) ([]model.InviteMyStaff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.InviteMyStaff
	for _, inv := range f.d.invites {
		if strings.EqualFold(inv.InviteStaffEmail, email) && !inv.InviteIsJoined && inv.InviteCodeHash != nil {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveInvite(_ context.Context, inv *model.InviteMyStaff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d.invites[inv.InviteID] = *inv
	return nil
}

func (f *fakeStore) PurgeExpiredCodes(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, inv := range f.d.invites {
		if inv.InviteCodeHash != nil && inv.InviteCodeExpiry != nil && !now.Before(*inv.InviteCodeExpiry) {
			inv.InviteCodeHash = nil
			f.d.invites[id] = inv
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateGatewayEvent(_ context.Context, e *model.PaymentGatewayEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	f.d.events[e.GatewayEventID] = *e
	return nil
}

func (f *fakeStore) SaveGatewayEvent(_ context.Context, e *model.PaymentGatewayEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d.events[e.GatewayEventID] = *e
	return nil
}

func (f *fakeStore) GetCompany(_ context.Context, id uuid.UUID) (*userModel.CompanyProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.d.companies[id]
	if !ok {
		return nil, apperror.NotFound("Company tidak ditemukan")
	}
	return &c, nil
}

func (f *fakeStore) GetStaff(_ context.Context, id uuid.UUID) (*userModel.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.d.staff[id]
	if !ok {
		return nil, apperror.NotFound("Staff tidak ditemukan")
	}
	return &s, nil
}

/* ---- helpers ---- */

func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (f *fakeStore) subsOf(companyID uuid.UUID) []model.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Subscription
	for _, s := range f.d.subs {
		if s.SubscriptionCompanyID == companyID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeStore) invitesOf(companyID uuid.UUID) []model.InviteMyStaff {
	rows, _, _ := f.ListInvites(context.Background(), companyID, 0, 0)
	return rows
}

func (f *fakeStore) eventList() []model.PaymentGatewayEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.PaymentGatewayEvent, 0, len(f.d.events))
	for _, e := range f.d.events {
		out = append(out, e)
	}
	return out
}

/* ---- provider ---- */

type fakeProvider struct {
	mu sync.Mutex

	checkoutErr error
	updateErr   error
	createErr   error
	validSig    bool

	checkouts []CheckoutRequest
	creates   []RecurringRequest
	updates   []RecurringRequest
	disabled  []string
}

var errProvider = errors.New("gateway down")

func (p *fakeProvider) CreateCheckout(_ context.Context, req CheckoutRequest) (*Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.checkoutErr != nil {
		return nil, apperror.External("Gagal membuat sesi pembayaran", p.checkoutErr)
	}
	p.checkouts = append(p.checkouts, req)
	return &Checkout{Token: "tok-" + req.OrderID, RedirectURL: "https://pay.example/" + req.OrderID}, nil
}

func (p *fakeProvider) CreateSubscription(_ context.Context, req RecurringRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return "", apperror.External("Gagal membuat langganan", p.createErr)
	}
	p.creates = append(p.creates, req)
	return "rec-1", nil
}

func (p *fakeProvider) GetSubscription(context.Context, string) (string, error) { return "active", nil }

func (p *fakeProvider) UpdateSubscription(_ context.Context, _ string, req RecurringRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.updateErr != nil {
		return apperror.External("Gagal mengubah langganan", p.updateErr)
	}
	p.updates = append(p.updates, req)
	return nil
}

func (p *fakeProvider) DisableSubscription(_ context.Context, providerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabled = append(p.disabled, providerID)
	return nil
}

func (p *fakeProvider) VerifySignature(_, _, _, signature string) bool {
	return p.validSig && signature != ""
}

/* ---- mailer ---- */

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[msg.To] {
		return errors.New("smtp refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
