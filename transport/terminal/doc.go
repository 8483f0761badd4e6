// Package terminal plays a game on a plain text stream.
//
// Each line of input is one command: w/a/s/d (or up/left/down/right) slides
// the board, r restarts and q quits. The board is redrawn after every move
// that changes it.
package terminal
