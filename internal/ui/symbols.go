package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Handler completed
	SymbolFail    = "✗" // Handler or option failed
	SymbolWarning = "⚠" // Cancelled or degraded
	SymbolPending = "○" // Not started
	SymbolGroup   = "▸" // Command with sub-commands
	SymbolLeaf    = "•" // Runnable command
	SymbolSkipped = "⊘" // Command without a handler
)
