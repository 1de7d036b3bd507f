// Package viz provides the terminal-based live view of the link.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live pipeline view streaming symbol batches every tick
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Camera]: rotatable, zoomable 3D projection of the constellation
//
// # Key Bindings
//
//	Space - Pause/Resume the run
//	R     - Reset to the initial configuration and replay the seed
//	Tab   - Cycle tunable parameters (amplitude, noise power, seed)
//	↑/↓   - Scale the selected parameter
//	X/Y/Z - Rotate the camera (shifted key rotates backwards)
//	+/-   - Zoom
//	S     - Save the canvas as SVG
//	?     - Show help overlay
//
// # Snapshots
//
// The S key serializes the current canvas as an SVG document in the
// working directory, one circle per lit braille dot.
package viz
