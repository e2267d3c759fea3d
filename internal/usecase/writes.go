package usecase

import (
	"sync"

	"github.com/rs/zerolog"
)

// Mailer is the subset of the SMTP mailer the usecases send through.
type Mailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// settleWrites runs a pair of store writes concurrently and waits for both
// to finish. Neither write is rolled back when the other fails: the
// caller's outcome is decided by the primary write alone, and a secondary
// failure is only logged. This preserves the original best-effort
// dual-write behavior and its partial-failure window (for example a task
// persisted while the owning project's task list was not updated); there
// is no background reconciliation.
func settleWrites(logger *zerolog.Logger, primary, secondary func() error) error {
	var primaryErr, secondaryErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		primaryErr = primary()
	}()
	go func() {
		defer wg.Done()
		secondaryErr = secondary()
	}()
	wg.Wait()

	if secondaryErr != nil {
		logger.Error().Err(secondaryErr).Msg("secondary write failed, primary not rolled back")
	}

	return primaryErr
}
