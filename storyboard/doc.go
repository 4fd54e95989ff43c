// Package storyboard holds the frames of one traced algorithm run and the
// store that owns them between visualize requests.
package storyboard
