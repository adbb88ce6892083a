// Package scheduler menjalankan pekerjaan periodik (expire lamaran, tutup vacancy, purge kode undangan).
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Task satu pekerjaan sweeper; mengembalikan jumlah baris yang berubah.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

type Sweeper struct {
	cron    *cron.Cron
	tasks   []Task
	timeout time.Duration
	log     *logrus.Entry
}

func NewSweeper(log *logrus.Logger, tasks ...Task) *Sweeper {
	entry := log.WithField("module", "scheduler")
	return &Sweeper{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{entry}),
			cron.SkipIfStillRunning(cronLogger{entry}),
		)),
		tasks:   tasks,
		timeout: 4 * time.Minute,
		log:     entry,
	}
}

// Start daftarkan RunOnce pada jadwal spec (mis. "@every 10m") lalu mulai cron.
func (s *Sweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return err
	}
	s.log.WithField("schedule", spec).Info("sweeper started")
	s.cron.Start()
	return nil
}

// Stop tunggu run yang sedang jalan selesai atau ctx habis.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("sweeper stop timed out")
	}
}

// RunOnce jalankan semua task berurutan; error satu task tidak menghentikan yang lain.
func (s *Sweeper) RunOnce(ctx context.Context) map[string]int64 {
	out := make(map[string]int64, len(s.tasks))
	for _, t := range s.tasks {
		n, err := t.Run(ctx)
		if err != nil {
			s.log.WithError(err).WithField("task", t.Name).Error("sweeper task failed")
			continue
		}
		out[t.Name] = n
		if n > 0 {
			s.log.WithFields(logrus.Fields{"task": t.Name, "count": n}).Info("sweeper task done")
		}
	}
	return out
}

// cronLogger adapter cron.Logger -> logrus.
type cronLogger struct{ e *logrus.Entry }

func (l cronLogger) Info(msg string, kv ...any) {
	l.e.WithFields(fields(kv)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.e.WithError(err).WithFields(fields(kv)).Error(msg)
}

func fields(kv []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}
