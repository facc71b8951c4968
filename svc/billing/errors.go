package billing

import (
	"errors"

	"github.com/dmitrymomot/taskflow/pkg/apperr"
)

var (
	ErrPlanNotFound         = apperr.New(apperr.ErrNotFound, "billing: plan not found")
	ErrOrderNotFound        = apperr.New(apperr.ErrNotFound, "billing: order not found")
	ErrSubscriptionNotFound = apperr.New(apperr.ErrNotFound, "billing: subscription not found")

	ErrOrderNotPayable       = apperr.New(apperr.ErrInvalidState, "billing: order is not awaiting payment")
	ErrOrderMismatch         = apperr.New(apperr.ErrInvalidState, "billing: order does not belong to this workspace and plan")
	ErrPaymentReferenceReuse = apperr.New(apperr.ErrInvalidState, "billing: payment reference already used for another order")

	ErrSignatureInvalid = apperr.New(apperr.ErrSignatureInvalid, "billing: payment signature is invalid")

	ErrInvalidWorkspace = apperr.New(apperr.ErrInvalidArgument, "billing: workspace id is required")
	ErrInvalidOrderID   = apperr.New(apperr.ErrInvalidArgument, "billing: order id is required")
	ErrLimitExceeded    = apperr.New(apperr.ErrLimitExceeded, "billing: plan limit reached")

	ErrInvalidPlanConfiguration = errors.New("billing: invalid plan configuration")
	ErrFailedToLoadPlans        = errors.New("billing: failed to load plans")
	ErrNoCounterRegistered      = errors.New("billing: no usage counter registered for resource")
	ErrFailedToCountUsage       = errors.New("billing: failed to count resource usage")
)
