// Package cmdtree builds hierarchical command-line interfaces from
// space-separated command keys and runs them.
//
// Commands are registered by key ("project echo") on a Registry, usually
// through a Host. BuildTree wires every key under its parent, creating
// implicit group nodes for key segments nobody declared, so keys may be
// registered in any order.
//
// A run goes through four stages:
//
//	parse     cobra tokenizes the command line; values, defaults and
//	          parse errors are collected on a ParseResult
//	scope     a Scope is opened on the host's Services for the invocation
//	pipeline  option and argument pre-actions run concurrently and record
//	          values and failure statuses on the CommandContext
//	dispatch  the node's Action runs; by default the Dispatcher resolves
//	          the handler keyed by the command key and invokes it
//
// Exit codes from the dispatcher are ExitSuccess, ExitInputActionError
// (253), ExitCancelled (254) and ExitError (255). Handlers own the low
// range and their codes are returned verbatim.
package cmdtree
