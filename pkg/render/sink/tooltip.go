package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/memgraph/pkg/interact"
	"github.com/matzehuels/memgraph/pkg/render"
)

const (
	tooltipWidth      = 240.0
	tooltipLineHeight = 16.0
	tooltipPadding    = 8.0
	tooltipWrapRunes  = 36

	tooltipCSS = `
    .tooltip { pointer-events: none; transition: opacity 0.15s ease; }
    .tooltip[visibility="hidden"] { opacity: 0; }
    .tooltip[visibility="visible"] { opacity: 1; }`

	tooltipJS = `
    const svg = document.querySelector('svg');
    const vb = svg.viewBox.baseVal;
    document.querySelectorAll('.node').forEach(el => {
      const tip = document.querySelector('.tooltip[data-for="' + el.dataset.id + '"]');
      if (!tip) return;
      el.addEventListener('mousemove', ev => {
        const pt = svg.createSVGPoint();
        pt.x = ev.clientX; pt.y = ev.clientY;
        const p = pt.matrixTransform(svg.getScreenCTM().inverse());
        const box = tip.getBBox();
        let x = p.x + 10, y = p.y - 10;
        x = Math.max(vb.x + 4, Math.min(x, vb.x + vb.width - box.width - 4));
        y = Math.max(vb.y + 4, Math.min(y, vb.y + vb.height - box.height - 4));
        tip.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
        tip.setAttribute('visibility', 'visible');
      });
      el.addEventListener('mouseleave', () => tip.setAttribute('visibility', 'hidden'));
    });`
)

// renderTooltip writes one tooltip group. A visible tooltip is placed at its
// anchor; hidden ones are positioned by the script. forID is zero for the
// live tooltip of a hovered node.
func renderTooltip(buf *bytes.Buffer, s render.Style, tip interact.Tooltip, visibility string, forID int64) {
	var lines []string
	lines = append(lines, fmt.Sprintf("ID: %d", tip.ID))
	lines = append(lines, wrap(tip.Content, tooltipWrapRunes)...)
	if tip.Date != "" {
		lines = append(lines, tip.Date)
	}
	h := float64(len(lines))*tooltipLineHeight + 2*tooltipPadding

	attrs := fmt.Sprintf(`class="tooltip" visibility="%s"`, visibility)
	if forID != 0 {
		attrs += fmt.Sprintf(` data-for="%d"`, forID)
	} else {
		attrs += fmt.Sprintf(` transform="translate(%.1f,%.1f)"`, tip.X, tip.Y)
	}
	fmt.Fprintf(buf, "  <g %s>\n", attrs)
	fmt.Fprintf(buf, `    <rect width="%.0f" height="%.0f" rx="4" fill="%s"/>`+"\n", tooltipWidth, h, escape(s.TooltipFill))
	for i, line := range lines {
		weight, style := "normal", "normal"
		switch {
		case i == 0:
			weight = "bold"
		case tip.Date != "" && i == len(lines)-1:
			style = "italic"
		}
		fmt.Fprintf(buf, `    <text x="%.0f" y="%.0f" font-family="sans-serif" font-size="12" font-weight="%s" font-style="%s" fill="white">%s</text>`+"\n",
			tooltipPadding, tooltipPadding+float64(i+1)*tooltipLineHeight-4, weight, style, escape(line))
	}
	buf.WriteString("  </g>\n")
}

func renderTooltipScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", tooltipCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", tooltipJS)
}

// wrap breaks text into lines of at most width runes, splitting on spaces
// where possible.
func wrap(text string, width int) []string {
	r := []rune(text)
	if len(r) == 0 {
		return nil
	}
	var lines []string
	for len(r) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if r[i] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, string(r[:cut]))
		r = r[cut:]
		for len(r) > 0 && r[0] == ' ' {
			r = r[1:]
		}
	}
	if len(r) > 0 {
		lines = append(lines, string(r))
	}
	return lines
}
