package billing

import (
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/handler"
	"github.com/dmitrymomot/taskflow/pkg/binder"
	"github.com/dmitrymomot/taskflow/pkg/validator"
	billingsvc "github.com/dmitrymomot/taskflow/svc/billing"
)

var (
	jsonBody   handler.Bind = binder.JSON()
	pathParams handler.Bind = binder.Path(chi.URLParam)
)

type handlers struct {
	svc  Service
	errs handler.ErrorHandler[handler.Context]
}

type empty struct{}

type workspaceRequest struct {
	WorkspaceID uuid.UUID `path:"workspaceID"`
}

type orderPathRequest struct {
	WorkspaceID uuid.UUID `path:"workspaceID"`
	OrderID     uuid.UUID `path:"orderID"`
}

type createOrderRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	PlanID      string    `json:"plan_id"`
}

// orderResponse flattens an activation into the order shape clients expect.
// Subscription is set when the plan was activated without payment.
type orderResponse struct {
	OrderID      uuid.UUID                `json:"order_id"`
	WorkspaceID  uuid.UUID                `json:"workspace_id"`
	PlanID       string                   `json:"plan_id"`
	Amount       int64                    `json:"amount"`
	Currency     string                   `json:"currency"`
	Status       billingsvc.OrderStatus   `json:"status"`
	Subscription *billingsvc.Subscription `json:"subscription,omitempty"`
}

func newOrderResponse(o *billingsvc.Order, sub *billingsvc.Subscription) orderResponse {
	return orderResponse{
		OrderID:      o.ID,
		WorkspaceID:  o.WorkspaceID,
		PlanID:       o.PlanID,
		Amount:       o.Amount,
		Currency:     o.Currency,
		Status:       o.Status,
		Subscription: sub,
	}
}

type verifyPaymentRequest struct {
	WorkspaceID      uuid.UUID `json:"workspace_id"`
	PlanID           string    `json:"plan_id"`
	OrderID          uuid.UUID `json:"order_id"`
	PaymentReference string    `json:"payment_reference"`
	Signature        string    `json:"signature"`
}

func (h *handlers) listPlans(ctx handler.Context, _ empty) handler.Response {
	return handler.JSON(h.svc.ListPlans(ctx))
}

func (h *handlers) createOrder(ctx handler.Context, req createOrderRequest) handler.Response {
	if err := validator.Apply(
		validator.RequiredUUID("workspace_id", req.WorkspaceID),
		validator.Required("plan_id", req.PlanID),
	); err != nil {
		return handler.Error(err)
	}

	act, err := h.svc.ActivatePlan(ctx, req.WorkspaceID, req.PlanID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(newOrderResponse(act.Order, act.Subscription))
}

func (h *handlers) verifyPayment(ctx handler.Context, req verifyPaymentRequest) handler.Response {
	if err := validator.Apply(
		validator.RequiredUUID("workspace_id", req.WorkspaceID),
		validator.Required("plan_id", req.PlanID),
		validator.RequiredUUID("order_id", req.OrderID),
		validator.Required("payment_reference", req.PaymentReference),
		validator.Required("signature", req.Signature),
	); err != nil {
		return handler.Error(err)
	}

	sub, err := h.svc.VerifyPayment(ctx, billingsvc.VerifyPaymentInput{
		WorkspaceID:      req.WorkspaceID,
		PlanID:           req.PlanID,
		OrderID:          req.OrderID,
		PaymentReference: req.PaymentReference,
		Signature:        req.Signature,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(sub)
}

func (h *handlers) currentSubscription(ctx handler.Context, req workspaceRequest) handler.Response {
	sub, err := h.svc.CurrentSubscription(ctx, req.WorkspaceID)
	if err != nil {
		return handler.Error(err)
	}
	// no subscription renders as "data": null
	return handler.JSON(sub)
}

func (h *handlers) subscriptionHistory(ctx handler.Context, req workspaceRequest) handler.Response {
	subs, err := h.svc.SubscriptionHistory(ctx, req.WorkspaceID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(subs)
}

func (h *handlers) usage(ctx handler.Context, req workspaceRequest) handler.Response {
	usage, err := h.svc.Usage(ctx, req.WorkspaceID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(usage)
}

func (h *handlers) getOrder(ctx handler.Context, req orderPathRequest) handler.Response {
	order, err := h.svc.GetOrder(ctx, req.WorkspaceID, req.OrderID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(order)
}

func (h *handlers) cancelOrder(ctx handler.Context, req orderPathRequest) handler.Response {
	order, err := h.svc.CancelOrder(ctx, req.WorkspaceID, req.OrderID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(order)
}
