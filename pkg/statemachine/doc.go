// Package statemachine provides declarative transition tables for records whose
// lifecycle is persisted elsewhere.
//
// A Table does not hold a current state. Callers load a record, ask the table whether
// the requested move is legal, and persist the result with their own concurrency
// control (a mutex, a conditional UPDATE). This keeps the rules in one place while the
// stores stay free to implement compare-and-swap the way their backend allows.
//
// # Usage
//
//	type OrderStatus string
//
//	const (
//	    Created OrderStatus = "created"
//	    Paid    OrderStatus = "paid"
//	    Expired OrderStatus = "expired"
//	)
//
//	table := statemachine.NewTable(Created, Paid, Expired).
//	    Allow(Created, Paid, Expired)
//
//	if err := table.Transition(order.Status, Paid); err != nil {
//	    // statemachine.IsNoTransitionAvailableError(err) or IsUnknownStateError(err)
//	}
//
// Fully connected lifecycles (every state may move to every other, including itself)
// are declared with AllowAll.
//
// # Concurrency
//
// Tables are immutable once built and safe for concurrent reads. Building a table
// (Allow, AllowAll) is not synchronized and should happen during package init.
package statemachine
