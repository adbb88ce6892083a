package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"letme_backend/internals/helpers/document"
	"letme_backend/internals/helpers/mailer"
)

// Uploader subset OSSService yang dipakai dispatcher.
type Uploader interface {
	PutBytes(ctx context.Context, dir, filename, contentType string, data []byte) (url, key string, err error)
}

// ContractDispatcher render PDF, simpan ke object storage, lalu email ke staff.
// Upload opsional (nil = hanya lampiran email).
type ContractDispatcher struct {
	Renderer document.Renderer
	Storage  Uploader
	Mailer   mailer.Mailer
	Timeout  time.Duration
	Log      *logrus.Entry

	wg sync.WaitGroup
}

func NewContractDispatcher(r document.Renderer, storage Uploader, m mailer.Mailer, log *logrus.Logger) *ContractDispatcher {
	return &ContractDispatcher{
		Renderer: r,
		Storage:  storage,
		Mailer:   m,
		Timeout:  30 * time.Second,
		Log:      log.WithField("module", "contracts"),
	}
}

func (d *ContractDispatcher) Send(job ContractJob) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
		defer cancel()
		if err := d.Dispatch(ctx, job); err != nil {
			d.Log.WithError(err).WithField("application_id", job.ApplicationID).Error("contract dispatch failed")
		}
	}()
}

// Wait tunggu kontrak yang masih dikirim, paling lama sampai ctx selesai.
func (d *ContractDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch versi sinkron dari Send.
func (d *ContractDispatcher) Dispatch(ctx context.Context, job ContractJob) error {
	now := time.Now()
	contractNo := fmt.Sprintf("LTM-%s-%s", now.Format("20060102"), job.ApplicationID.String()[:8])

	pdf, err := d.Renderer.RenderContract(document.ContractInput{
		ContractNo:  contractNo,
		CompanyName: job.CompanyName,
		StaffName:   job.StaffName,
		StaffEmail:  job.StaffEmail,
		JobTitle:    job.JobTitle,
		RoleName:    job.RoleName,
		Location:    job.Location,
		OpenDate:    job.OpenDate,
		StartTime:   job.StartTime,
		EndTime:     job.EndTime,
		HourlyRate:  job.HourlyRate,
		IssuedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("render contract: %w", err)
	}

	filename := contractNo + ".pdf"
	var url string
	if d.Storage != nil {
		u, _, err := d.Storage.PutBytes(ctx, "contracts", filename, "application/pdf", pdf)
		if err != nil {
			// lanjut kirim email dengan lampiran saja
			d.Log.WithError(err).WithField("application_id", job.ApplicationID).Warn("contract upload failed")
		} else {
			url = u
		}
	}

	html, err := mailer.RenderContract(mailer.ContractData{
		StaffName:   job.StaffName,
		CompanyName: job.CompanyName,
		JobTitle:    job.JobTitle,
		OpenDate:    job.OpenDate.Format("02 Jan 2006"),
		StartTime:   job.StartTime,
		EndTime:     job.EndTime,
		Location:    job.Location,
		ContractURL: url,
	})
	if err != nil {
		return fmt.Errorf("render mail: %w", err)
	}

	return d.Mailer.Send(ctx, mailer.Message{
		To:      job.StaffEmail,
		Subject: "Kontrak kerja " + job.JobTitle,
		HTML:    html,
		Attachments: []mailer.Attachment{
			{Name: filename, ContentType: "application/pdf", Data: pdf},
		},
	})
}
