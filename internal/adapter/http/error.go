package http

import (
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rcdesk/rentcase/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// dropWarning strips a history warning from a service result. The transition
// has already committed; a failed audit write must not fail the request.
func dropWarning(err error) error {
	var warn *domain.HistoryWarning
	if errors.As(err, &warn) {
		return nil
	}
	return err
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	var nfErr *domain.NotFoundError
	if errors.As(err, &nfErr) {
		return huma.Error404NotFound(nfErr.Error())
	}

	if errors.Is(err, domain.ErrConflict) {
		return huma.Error409Conflict("resource was modified concurrently, retry")
	}

	var capErr *domain.CapacityError
	if errors.As(err, &capErr) {
		return huma.Error409Conflict(capErr.Error())
	}

	var unavErr *domain.UnavailableError
	if errors.As(err, &unavErr) {
		return huma.Error409Conflict(unavErr.Error())
	}

	var permErr *domain.PermissionError
	if errors.As(err, &permErr) {
		return huma.Error403Forbidden(permErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	var stErr *domain.StateError
	if errors.As(err, &stErr) {
		return huma.Error422UnprocessableEntity(stErr.Error())
	}

	var perErr *domain.PeriodError
	if errors.As(err, &perErr) {
		return huma.Error422UnprocessableEntity(perErr.Error())
	}

	var rangeErr *domain.TimeRangeError
	if errors.As(err, &rangeErr) {
		return huma.Error422UnprocessableEntity(rangeErr.Error())
	}

	var reqErr *domain.RequiredFieldError
	if errors.As(err, &reqErr) {
		return huma.Error422UnprocessableEntity(reqErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}
