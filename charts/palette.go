package charts

// Viridis is plotly's sequential Viridis scale.
var Viridis = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

var fallbackSentimentColors = [3]string{"#2ca02c", "#7f7f7f", "#d62728"}

// Sentiment series names as shown on the dashboard.
const (
	SeriesPositive = "Positivas"
	SeriesNeutral  = "Neutrales"
	SeriesNegative = "Negativas"
)

// SentimentColors picks positive, neutral and negative colours at 80%, 50% and
// 20% of the palette. Palettes shorter than three colours use green, grey and red.
func SentimentColors(palette []string) map[string]string {
	colors := fallbackSentimentColors
	if n := len(palette); n >= 3 {
		for i, p := range []float64{0.8, 0.5, 0.2} {
			colors[i] = palette[roundHalfEven(float64(n-1)*p)]
		}
	}
	return map[string]string{
		SeriesPositive: colors[0],
		SeriesNeutral:  colors[1],
		SeriesNegative: colors[2],
	}
}

// roundHalfEven rounds x to the nearest integer, ties to even.
func roundHalfEven(x float64) int {
	i := int(x)
	frac := x - float64(i)
	switch {
	case frac > 0.5:
		return i + 1
	case frac < 0.5:
		return i
	case i%2 == 0:
		return i
	default:
		return i + 1
	}
}
