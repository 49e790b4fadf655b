// Package cli is the cmdtree demo application. It declares its commands on
// a cmdtree.Host and lets the host parse, run option handlers and dispatch.
//
// # Command Structure
//
//	cmdtree init                          - Create .cmdtree.yaml
//	cmdtree config show                   - Print the effective config
//	cmdtree tree [--format text|yaml|json] - List the command tree
//	cmdtree version                       - Print version information
//	cmdtree project echo <message>        - Print a message
//	cmdtree project template new <name>   - Scaffold a project directory
//	cmdtree greet hello|goodbye           - Greetings sharing one parameter type
//	cmdtree tracker add <items...>        - Record items in the tracker file
//	cmdtree tracker list                  - Show tracked items
//	cmdtree wait --for <duration>         - Sleep until done or interrupted
//
// "project" and "project template" are never declared; the registry
// creates them as implicit groups.
//
// # Global Options
//
// --config and --verbosity are recursive options on the root command, so
// every command accepts them. --version short-circuits any command.
//
// The config file is located before the tree is built, using a pre-scan of
// the arguments for --config, because it supplies option defaults such as
// the tracker file.
package cli
