package render

// Style holds the visual constants of a rendered frame. Sizes are in graph
// units and scale with the view transform.
type Style struct {
	Width, Height float64

	MarkerRadius float64
	HoverRadius  float64
	MarkerStroke float64

	// StrokeScale converts edge strength to line width.
	StrokeScale float64

	// LabelMaxRunes is the preview length; longer content gets "...".
	LabelMaxRunes int
	LabelDX       float64
	LabelDY       float64
	FontSize      float64

	Background  string
	NodeFill    string
	NodeStroke  string
	EdgeStroke  string
	EdgeOpacity float64
	LabelFill   string
	TooltipFill string

	EmptyMessage string
}

// DefaultStyle returns the dark memory-graph theme.
func DefaultStyle() Style {
	return Style{
		Width:         800,
		Height:        600,
		MarkerRadius:  8,
		HoverRadius:   12,
		MarkerStroke:  2,
		StrokeScale:   3,
		LabelMaxRunes: 20,
		LabelDX:       12,
		LabelDY:       4,
		FontSize:      10,
		Background:    "#0f172a",
		NodeFill:      "#34d399",
		NodeStroke:    "#ffffff",
		EdgeStroke:    "rgba(255, 255, 255, 0.3)",
		EdgeOpacity:   0.6,
		LabelFill:     "#e2e8f0",
		TooltipFill:   "rgba(0, 0, 0, 0.8)",
		EmptyMessage:  "No memories yet.",
	}
}

// withDefaults fills zero fields from DefaultStyle.
func (s Style) withDefaults() Style {
	d := DefaultStyle()
	num := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	str := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	num(&s.Width, d.Width)
	num(&s.Height, d.Height)
	num(&s.MarkerRadius, d.MarkerRadius)
	num(&s.HoverRadius, d.HoverRadius)
	num(&s.MarkerStroke, d.MarkerStroke)
	num(&s.StrokeScale, d.StrokeScale)
	num(&s.LabelDX, d.LabelDX)
	num(&s.LabelDY, d.LabelDY)
	num(&s.FontSize, d.FontSize)
	num(&s.EdgeOpacity, d.EdgeOpacity)
	if s.LabelMaxRunes == 0 {
		s.LabelMaxRunes = d.LabelMaxRunes
	}
	str(&s.Background, d.Background)
	str(&s.NodeFill, d.NodeFill)
	str(&s.NodeStroke, d.NodeStroke)
	str(&s.EdgeStroke, d.EdgeStroke)
	str(&s.LabelFill, d.LabelFill)
	str(&s.TooltipFill, d.TooltipFill)
	str(&s.EmptyMessage, d.EmptyMessage)
	return s
}

// Preview truncates content to the label length.
func (s Style) Preview(content string) string {
	limit := s.LabelMaxRunes
	if limit <= 0 {
		limit = DefaultStyle().LabelMaxRunes
	}
	r := []rune(content)
	if len(r) <= limit {
		return content
	}
	return string(r[:limit]) + "..."
}
