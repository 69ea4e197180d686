//go:build unit

package errs_test

import (
	stderrors "errors"
	"testing"

	"rental-storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestIs_SeesMarkedSentinels(t *testing.T) {
	t.Parallel()

	inner := errs.New("only 0 of 3 units free on this date")
	marked := errs.Mark(inner, errs.ErrAvailabilityConflict)

	assert.True(t, errs.Is(marked, errs.ErrAvailabilityConflict))
	assert.False(t, stderrors.Is(marked, errs.ErrAvailabilityConflict),
		"marks are invisible to the stdlib Unwrap chain")
}

func TestIs_FollowsWrapChain(t *testing.T) {
	t.Parallel()

	wrapped := errs.Wrap(errs.ErrServiceNotFound, "loading service")

	assert.True(t, errs.Is(wrapped, errs.ErrServiceNotFound))
	assert.False(t, errs.Is(wrapped, errs.ErrBookingNotFound))
}

func TestIs_MarkKeepsCauseVisible(t *testing.T) {
	t.Parallel()

	cause := errs.New("row missing")
	marked := errs.Mark(errs.Wrap(cause, "loading booking"), errs.ErrBookingNotFound)

	assert.True(t, errs.Is(marked, cause))
	assert.True(t, errs.Is(marked, errs.ErrBookingNotFound))
}
