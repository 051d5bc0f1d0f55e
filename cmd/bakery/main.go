// Bakery is a playground service for Biscuit authorization tokens.
//
// It hosts an HTTP API that builds tokens from Datalog source blocks,
// runs a verifier against them, and reports positioned annotations for
// every editor pane.
//
// Usage:
//
//	# Start the server with default configuration
//	bakery serve
//
//	# Start with a custom configuration file
//	bakery serve --config /path/to/config.yaml
//
//	# Execute a session from the command line
//	bakery exec --block 'user("alice");' --verifier 'allow if user("alice");'
//
//	# Validate Datalog files
//	bakery lint --file policy.datalog
//
//	# Show version information
//	bakery version
package main

func main() {
	Execute()
}
