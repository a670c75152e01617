package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"openshelf/library-management/internal/api/models"
	"openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/api/service"
	"openshelf/library-management/internal/config"
)

// Worker periodically scans open loans and notifies users whose books are
// due soon or overdue. Duplicate messages are suppressed by the
// notification repository.
type Worker struct {
	loanRepo repository.LoanRepository
	notifier service.Notifier
	policy   config.LoanPolicy
	interval time.Duration
	now      func() time.Time
}

// NewWorker creates a new reminder Worker.
func NewWorker(loanRepo repository.LoanRepository, notifier service.Notifier, policy config.LoanPolicy) *Worker {
	return &Worker{
		loanRepo: loanRepo,
		notifier: notifier,
		policy:   policy,
		interval: 24 * time.Hour,
		now:      time.Now,
	}
}

// Start runs an immediate check, then one per interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.Check(ctx)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Check(ctx)
			}
		}
	}()
}

// Check scans open loans once.
func (w *Worker) Check(ctx context.Context) {
	loans, err := w.loanRepo.ListOpen(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "reminder worker failed to list open loans", "error", err)
		return
	}

	now := w.now()
	for _, loan := range loans {
		if models.IsOverdue(loan.DueDate, now) {
			daysLate := models.DaysLate(loan.DueDate, now)
			fine := float64(daysLate) * w.policy.FinePerDay
			w.notifier.Notify(ctx, loan.UserID,
				fmt.Sprintf("OVERDUE: '%s' was due on %s. Accrued fine so far: %.2f",
					loan.Title, loan.DueDate.Format("02 Jan 2006"), fine))
			continue
		}

		if until := loan.DueDate.Sub(now); until > 0 && until < 24*time.Hour {
			w.notifier.Notify(ctx, loan.UserID,
				fmt.Sprintf("REMINDER: '%s' is due back on %s", loan.Title, loan.DueDate.Format("02 Jan 2006")))
		}
	}
}
