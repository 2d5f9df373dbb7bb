// Package credits bills job actions against an external credit ledger
// service over HTTP. Billing is optional: with no base URL configured
// every call reports a skipped charge and jobs complete unbilled.
package credits
