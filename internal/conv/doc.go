// Package conv provides bounds-checked integer conversions for values read
// from or written to dataset headers.
package conv
