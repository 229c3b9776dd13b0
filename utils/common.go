package utils

const (
	NODETOL = 1.e-12
	// FRACTOL is the distance within which a span fraction lands on a section
	FRACTOL = 1.e-10
)
