package reconciliation

import (
	"context"
	"errors"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const fallbackCronSpec = "@every 1h"

var errAlreadyStarted = errors.New("reconciliation worker already started")

// Worker periodically pulls assignment entries that point at patient accounts
// which no longer exist. Only one replica sweeps at a time.
type Worker struct {
	log      *zap.Logger
	cfg      *config.InternalConfig
	locker   contracts.LockerService
	accounts contracts.AccountRepository
	limiter  *rate.Limiter

	mu     sync.Mutex
	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, accounts contracts.AccountRepository) contracts.ReconciliationService {
	writesPerSecond := cfg.App.CascadeWritesPerSecond
	if writesPerSecond <= 0 {
		writesPerSecond = 20
	}
	return &Worker{
		log:      log,
		cfg:      cfg,
		locker:   lockerSvc,
		accounts: accounts,
		limiter:  rate.NewLimiter(rate.Limit(writesPerSecond), 1),
	}
}

func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return errAlreadyStarted
	}

	w.runCtx, w.cancel = context.WithCancel(context.Background())
	c := cron.New()
	spec := w.cfg.App.ReconciliationCronSpec
	if _, err := c.AddFunc(spec, w.runOnce); err != nil {
		w.log.Warn("reconciliation.Worker invalid cron spec, falling back",
			zap.String(constvars.LoggingCronSpecKey, spec),
			zap.Error(err),
		)
		c = cron.New()
		if _, err := c.AddFunc(fallbackCronSpec, w.runOnce); err != nil {
			return err
		}
		spec = fallbackCronSpec
	}
	c.Start()
	w.cron = c

	w.log.Info("reconciliation.Worker started",
		zap.String(constvars.LoggingCronSpecKey, spec),
	)
	return nil
}

// Stop cancels an in-flight sweep and waits for it, bounded by ctx.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	c, cancel := w.cron, w.cancel
	w.cron, w.cancel = nil, nil
	w.mu.Unlock()

	if c == nil {
		return nil
	}
	cancel()
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) runOnce() {
	w.mu.Lock()
	ctx := w.runCtx
	w.mu.Unlock()
	if ctx == nil {
		return
	}

	removed, err := w.Sweep(ctx)
	if err != nil {
		w.log.Error("reconciliation.Worker sweep failed", zap.Error(err))
		return
	}
	w.log.Info("reconciliation.Worker sweep finished",
		zap.Int64(constvars.LoggingCountKey, removed),
	)
}

// Sweep returns how many stray assignment entries were pulled. Doctors are
// read before patients: an id that shows up in a doctor set was assigned while
// the patient existed, so if the patient is missing from the later read it is
// really gone.
func (w *Worker) Sweep(ctx context.Context) (int64, error) {
	ttl := w.cfg.App.ReconciliationLockTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	acquired, lockValue, err := w.locker.TryLock(ctx, constvars.LockKeyReconciliation, ttl)
	if err != nil {
		return 0, err
	}
	if !acquired {
		w.log.Info("reconciliation.Worker lock held by another replica, skipping")
		return 0, nil
	}
	defer func() {
		if err := w.locker.Unlock(context.WithoutCancel(ctx), constvars.LockKeyReconciliation, lockValue); err != nil {
			w.log.Warn("reconciliation.Worker error releasing lock", zap.Error(err))
		}
	}()

	doctors, err := w.accounts.FindByRole(ctx, models.RoleDoctor)
	if err != nil {
		return 0, err
	}
	patients, err := w.accounts.FindByRole(ctx, models.RolePatient)
	if err != nil {
		return 0, err
	}

	existing := make(map[string]struct{}, len(patients))
	for i := range patients {
		existing[patients[i].ID] = struct{}{}
	}

	var removed int64
	for i := range doctors {
		stray := make([]string, 0)
		for _, patientID := range doctors[i].AssignedPatients {
			if _, ok := existing[patientID]; !ok {
				stray = append(stray, patientID)
			}
		}
		if len(stray) == 0 {
			continue
		}

		if err := w.limiter.Wait(ctx); err != nil {
			return removed, exceptions.ErrServerDeadlineExceeded(err)
		}
		modified, err := w.accounts.RemoveAssignedPatients(ctx, doctors[i].ID, stray)
		if err != nil {
			return removed, err
		}
		if modified > 0 {
			removed += int64(len(stray))
			w.log.Info("reconciliation.Worker pulled stray assignments",
				zap.String(constvars.LoggingDoctorIDKey, doctors[i].ID),
				zap.Strings("patient_ids", stray),
			)
		}
	}
	return removed, nil
}
