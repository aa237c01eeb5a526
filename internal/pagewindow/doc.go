// Package pagewindow computes which page labels a pagination control shows.
//
// It has no dependencies beyond strconv and performs no I/O, so the list
// controller and the terminal UI share one implementation.
package pagewindow
