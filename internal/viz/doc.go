// Package viz draws a running scenario in the terminal.
//
// [Model] steps a [sim.Scenario] on a Bubble Tea timer and renders the active
// vessel from above on a Braille [Canvas]: the body, the reference vector
// from its centre and the held heading. [App] is a preset picker in front of
// it.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single step while paused
//	M     - Click the toggle button (AUTO, ON, OFF)
//	H     - Engage or release hold on the active vessel
//	P     - Pack or unpack the active vessel
//	N     - Focus the next vessel
//	+/-   - Time warp
//	?     - Show help overlay
//	Q     - Quit
package viz
