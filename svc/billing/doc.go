// Package billing moves a workspace from one plan to another.
//
// The Catalog holds the immutable set of plans. The Ledger records orders: a
// priced, single-use intent to subscribe a workspace to a plan. The Service
// orchestrates both with a Store to activate plans:
//
//   - free plans commit a subscription immediately, and the order is marked
//     paid in the same unit of work;
//   - paid plans return the pending order, and VerifyPayment commits only
//     after the gateway signature over (order id, payment reference) checks out.
//
// Committing cancels the workspace's previous active subscription and inserts
// the new one atomically, so a workspace never has more than one active
// subscription. A workspace without a live subscription is on the default
// free plan.
package billing
