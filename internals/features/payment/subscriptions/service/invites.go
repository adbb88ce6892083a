package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"letme_backend/internals/features/payment/subscriptions/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dberr"
	"letme_backend/internals/helpers/mailer"
)

const (
	inviteCodeLen      = 8
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteMailTimeout  = 60 * time.Second
)

func newInviteCode() (string, error) {
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	var b strings.Builder
	for i := 0; i < inviteCodeLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(inviteCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func (s *SubscriptionService) dispatchInvites(subscriptionID uuid.UUID) {
	s.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), inviteMailTimeout)
		defer cancel()
		if err := s.MailInvites(ctx, subscriptionID); err != nil {
			s.log.WithError(err).WithField("subscription_id", subscriptionID).Error("mail invites")
		}
	})
}

// MailInvites terbitkan kode join untuk invite yang belum dikirim lalu kirim email.
// Gagal kirim satu email tidak menghentikan yang lain; invite itu tetap unmailed.
func (s *SubscriptionService) MailInvites(ctx context.Context, subscriptionID uuid.UUID) error {
	invites, err := s.store.ListUnmailedInvites(ctx, subscriptionID)
	if err != nil {
		return err
	}
	companies := map[uuid.UUID]string{}
	for i := range invites {
		inv := &invites[i]
		name, ok := companies[inv.InviteCompanyID]
		if !ok {
			c, err := s.store.GetCompany(ctx, inv.InviteCompanyID)
			if err != nil {
				return err
			}
			name = c.CompanyName
			companies[inv.InviteCompanyID] = name
		}

		code, err := newInviteCode()
		if err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		expiry := s.now().Add(InviteCodeTTL)

		html, err := mailer.RenderInvite(mailer.InviteData{
			Name:        inv.InviteStaffName,
			CompanyName: name,
			Code:        code,
			Expiry:      expiry.Format("02/01/2006 15:04"),
		})
		if err != nil {
			return err
		}
		if err := s.mailer.Send(ctx, mailer.Message{
			To:      inv.InviteStaffEmail,
			Subject: "Undangan bergabung - " + name,
			HTML:    html,
		}); err != nil {
			s.log.WithError(err).WithField("invite_id", inv.InviteID).Warn("send invite mail")
			continue
		}

		h := string(hash)
		mailedAt := s.now()
		inv.InviteCodeHash = &h
		inv.InviteCodeExpiry = &expiry
		inv.InviteMailedAt = &mailedAt
		if err := s.store.SaveInvite(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

// JoinWithCode ubah invite jadi MyStaff. Kuota dicek ulang di dalam transaksi.
func (s *SubscriptionService) JoinWithCode(ctx context.Context, staffID uuid.UUID, code string) (*model.MyStaff, error) {
	staff, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	invites, err := s.store.ListOpenInvitesByEmail(ctx, strings.ToLower(strings.TrimSpace(staff.StaffEmail)))
	if err != nil {
		return nil, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	var match *model.InviteMyStaff
	for i := range invites {
		inv := &invites[i]
		if inv.InviteCodeHash == nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(*inv.InviteCodeHash), []byte(code)) == nil {
			match = inv
			break
		}
	}
	if match == nil {
		return nil, apperror.NotFound("Kode undangan tidak ditemukan")
	}
	if match.InviteCodeExpiry == nil || !s.now().Before(*match.InviteCodeExpiry) {
		return nil, apperror.Expired("Kode undangan sudah kedaluwarsa")
	}

	ms := &model.MyStaff{
		MyStaffID:        uuid.New(),
		MyStaffCompanyID: match.InviteCompanyID,
		MyStaffStaffID:   staffID,
		MyStaffJobRole:   match.InviteJobRole,
		MyStaffStatus:    model.MyStaffActive,
	}
	err = s.store.Transaction(ctx, func(tx Store) error {
		active, err := tx.FindActiveSubscription(ctx, match.InviteCompanyID)
		if err != nil {
			return err
		}
		if active == nil {
			return apperror.Quota("Perusahaan belum berlangganan")
		}
		pkg, err := tx.GetPackage(ctx, active.SubscriptionPackageID)
		if err != nil {
			return err
		}
		used, err := tx.CountActiveMyStaff(ctx, match.InviteCompanyID)
		if err != nil {
			return err
		}
		if used >= int64(pkg.PackageNumberOfStaff) {
			return apperror.Quota("Kuota staff perusahaan sudah penuh")
		}
		if err := tx.CreateMyStaff(ctx, ms); err != nil {
			if dberr.IsUniqueViolation(err) {
				return apperror.AlreadyProcessed("Sudah terdaftar sebagai staff perusahaan ini")
			}
			return err
		}
		match.InviteIsJoined = true
		match.InviteCodeHash = nil
		return tx.SaveInvite(ctx, match)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("company_id", ms.MyStaffCompanyID).WithField("staff_id", staffID).Info("staff joined")
	return ms, nil
}

// PurgeExpiredCodes hapus hash kode yang lewat masa berlaku (dipanggil scheduler).
func (s *SubscriptionService) PurgeExpiredCodes(ctx context.Context) (int64, error) {
	return s.store.PurgeExpiredCodes(ctx, s.now())
}
