package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gridsearch/internal/search"
)

// Summary renders the closing block of a search.
func Summary(rep *search.Report) string {
	var b strings.Builder
	b.WriteString(AcceptedStyle.Render("[SEARCH COMPLETED]"))
	b.WriteString("\n")

	accepted := 0
	for _, c := range rep.Combinations {
		if c.Accepted {
			accepted++
		}
	}
	fmt.Fprintf(&b, "%s %s  %s %s\n",
		MetricLabel.Render("combinations:"), MetricValue.Render(fmt.Sprintf("%d/%d", len(rep.Combinations), rep.Size)),
		MetricLabel.Render("accepted:"), MetricValue.Render(fmt.Sprint(accepted)),
	)

	if rep.Best == nil {
		b.WriteString(RejectedStyle.Render("[NO ACCEPTABLE COMBINATION]"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(AcceptedStyle.Render("[BEST_FOUND_SOLUTION]"))
	b.WriteString("\n")
	b.WriteString(rep.Best.Params)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", MetricLabel.Render("mean time:"), MetricValue.Render(fmt.Sprintf("%.6fs", rep.Best.MeanTime)))

	for _, c := range rep.Combinations {
		if c.Key == rep.Best.Key && c.Stats != nil {
			writeStats(&b, c.Stats)
			break
		}
	}
	return b.String()
}

func writeStats(b *strings.Builder, st *search.ComboStats) {
	label := "time:"
	if st.TrimWorst > 0 {
		label = fmt.Sprintf("time (trim %d):", st.TrimWorst)
	}
	fmt.Fprintf(b, "%s %s\n", MetricLabel.Render(label), MetricValue.Render(meanStd(st.MeanTime, st.StdTime, "%.6fs")))
	fmt.Fprintf(b, "%s %s\n", MetricLabel.Render("steps:"), MetricValue.Render(meanStd(st.MeanSteps, st.StdSteps, "%.1f")))
}

func meanStd(mean float64, std *float64, format string) string {
	if std == nil {
		return fmt.Sprintf(format, mean)
	}
	return fmt.Sprintf(format+" ± "+format, mean, *std)
}

// PlotMeanTimes charts the mean trial time of accepted combinations in
// sampling order. It returns an empty string when fewer than two were
// accepted.
func PlotMeanTimes(rep *search.Report, width, height int) string {
	data := make([]float64, 0, len(rep.Combinations))
	for _, c := range rep.Combinations {
		if c.Accepted {
			data = append(data, c.MeanTime)
		}
	}
	if len(data) < 2 {
		return ""
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("mean trial time (s) per accepted combination"),
	)
}
