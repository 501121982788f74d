// Package viz renders recorded galaxy collisions in the terminal.
//
//   - [Canvas]: braille pixel grid with per-cell galaxy layers
//   - [Camera]: rotating perspective projection fitted to the scene
//   - [Player]: Bubble Tea playback of a recorded series
//   - [Menu]: start screen choosing a new run or a saved replay
//
// # Key Bindings
//
//	Space   - Pause/Resume playback
//	[ ]     - Step one frame back/forward
//	x/y/z   - Rotate the camera (shift reverses)
//	+ -     - Zoom
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//	Q       - Quit
package viz
