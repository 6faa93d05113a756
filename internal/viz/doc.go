// Package viz renders orbiter fields in the terminal.
//
//   - [Canvas]: braille dot canvas, two by four dots per cell
//   - [DrawField]: draws a field's trail segments onto a canvas
//   - [Model]: bubbletea live view with stats panel and spread graph
//   - [NewPicker]: preset menu that launches the live view
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Reset the field now
//	T       - Cycle color themes
//	?       - Show help overlay
//	Q / Esc - Quit
package viz
