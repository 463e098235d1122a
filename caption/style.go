package caption

// Style is the complete visual state pushed to a render target whenever
// settings change. Colors holds the faded history ramp; the partial line
// always renders in the unscaled base color.
type Style struct {
	FontFamily   string
	FontSize     int
	Colors       [MaxHistory]string
	PartialColor string
	WrapWidth    int
}
