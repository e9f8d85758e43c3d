// Package badge renders shields-style SVG badges and the values shown on them.
package badge
