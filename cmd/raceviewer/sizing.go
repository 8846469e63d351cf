package main

// chartMinSize clamps the on-screen chart size for a window of width winW. The chart keeps
// its aspect ratio (h/w) and never drops below a readable 480 px on its wider edge.
func chartMinSize(winW float32, aspect float32) (float32, float32) {
	w := winW - 40
	if w < 480 {
		w = 480
	}
	if w > 1000 {
		w = 1000
	}
	if aspect <= 0 {
		aspect = 1
	}
	h := w * aspect
	if h > 1000 {
		h = 1000
		w = h / aspect
	}
	return w, h
}
