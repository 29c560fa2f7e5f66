// Package cli implements the interactive catalog shell.
//
// The shell reads one command per line, dispatches it to App and prints the
// result. While stdin is a terminal the prompt shows whether the API is
// reachable; queued offline products are uploaded in the background as soon
// as it becomes reachable again.
package cli
