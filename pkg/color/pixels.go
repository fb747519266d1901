package color

// Fill sets all pixels to c.
func Fill(pixels []RGB, c RGB) {
	for n := range pixels {
		pixels[n] = c
	}
}

// FillRainbow paints a rainbow starting at hue, advancing delta per pixel.
func FillRainbow(pixels []RGB, hue, delta uint8) {
	for n := range pixels {
		pixels[n] = HSV{H: hue, S: 240, V: 255}.RGB()
		hue += delta
	}
}

// FadeToBlackBy dims all pixels by fade/256.
func FadeToBlackBy(pixels []RGB, fade uint8) {
	for n := range pixels {
		pixels[n] = pixels[n].Scale(255 - fade)
	}
}
