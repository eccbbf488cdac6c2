// Package viz renders a gas mixing simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: drives a gas.Simulation, one Step per frame
//   - [Canvas]: Braille-based pixel canvas with per-cell color layers
//   - [Camera]: rotating perspective projection of the box
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Remove the partition and start
//	P     - Pause
//	R     - Reset with the tuned parameters
//	Tab   - Select parameter, Up/Down to tune
//	N     - Next preset
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts capturing frames; pressing it again writes an animated GIF to the
// path given in [Options].
package viz
