// Package escrowledger implements the Escrow Ledger inside the
// aid-disbursement context.
//
// The module owns the disbursement package lifecycle (create/claim/disburse/
// revoke/refund), pool solvency accounting over locked balances, and
// escrow-related event production through outbox-backed workers. It keeps
// business rules in application/domain layers and isolates infrastructure
// concerns behind ports and adapters.
package escrowledger
