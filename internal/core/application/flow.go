package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/internal/core/ports"
)

// flowCore bundles the pieces every flow owns: the submission machine, the
// keystore gate and the goroutine consuming the submitter's event stream.
type flowCore struct {
	id      uuid.UUID
	logger  *log.Entry
	sub     *Submission
	secrets ports.SecretValidator
	eg      errgroup.Group
}

func newFlowCore(kind string, totalSteps, legs int, secrets ports.SecretValidator) flowCore {
	id := uuid.New()
	return flowCore{
		id:      id,
		logger:  log.WithFields(log.Fields{"flow": kind, "id": id.String()}),
		sub:     NewSubmission(totalSteps, legs),
		secrets: secrets,
	}
}

// confirm gates the submission on secret validation, starts the machine and
// consumes the submit event stream until the submitter closes it.
func (f *flowCore) confirm(
	ctx context.Context,
	secret string,
	submit func(context.Context) (<-chan ports.SubmitEvent, error),
) error {
	if err := f.secrets.Validate(ctx, secret); err != nil {
		return fmt.Errorf("%w: %s", ErrSecretNotValid, err)
	}
	if !f.sub.Start() {
		return ErrSubmissionInProgress
	}
	events, err := submit(ctx)
	if err != nil {
		f.sub.LegFailed(0, err)
		return err
	}
	f.logger.Debug("submission started")
	f.eg.Go(func() error {
		for ev := range events {
			f.sub.apply(ev)
		}
		return nil
	})
	return nil
}

// Submission exposes the flow's submission machine for rendering progress
// and final result.
func (f *flowCore) Submission() *Submission {
	return f.sub
}

// wait blocks until all consumption goroutines have drained.
func (f *flowCore) wait() error {
	return f.eg.Wait()
}

// inputDecimal is the precision amounts of an asset are edited at, the
// chain-native precision capped to the 1e8 pool basis.
func inputDecimal(a domain.AssetWithDecimal) int {
	if a.Decimal > domain.MaxPoolDecimal {
		return domain.MaxPoolDecimal
	}
	return a.Decimal
}

func minAmount(a, b domain.Amount) domain.Amount {
	if b.LT(a) {
		return b
	}
	return a
}
