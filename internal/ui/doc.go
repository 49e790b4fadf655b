// Package ui provides the styled terminal output used by cmdtree: failure
// blocks for option handlers, command tree listings and the shared color
// palette, all rendered with Lip Gloss.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and cancellations
//	ColorInfo      (cyan)   - Option names
//	ColorMuted     (gray)   - Secondary text
//	ColorSecondary (blue)   - Group commands
//
// ConfigureColor selects the profile from the output.color setting
// ("auto", "always", "never"); auto honours NO_COLOR and only colors
// terminals.
package ui
