// Package viz draws the animated backdrop in the terminal.
//
// The live view is a Bubble Tea program built around [Model]. The engine
// ticks on its own clock into an [ambient.Buffer]; the model reads the latest
// frames every render tick, paints the gradient band with lipgloss background
// colors and eases the bars toward their logical heights with springs.
//
//   - [Model]: the live view over one engine
//   - [RunInteractive]: preset picker that opens the live view
//   - [RenderScene]: the frame renderer, usable without a program
//   - [Canvas]: braille dot canvas for monochrome snapshots
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reseed
//	C     - Cycle palettes
//	T     - Cycle themes
//	+/-   - Gradient speed
//	I     - Mean height chart
//	?     - Full help
//	Q     - Quit
package viz
