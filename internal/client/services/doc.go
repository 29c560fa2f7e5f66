// Package services holds the client-side business logic of the catalog:
// the favorites ledger, the offline submission queue and the catalog engine
// that ties them to the API and the reachability monitor.
package services
