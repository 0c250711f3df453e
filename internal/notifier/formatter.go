package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/predictor"
)

// FormatConsensusReport formats a multi-run consensus prediction into an
// HTML email body.
func FormatConsensusReport(res predictor.ConsensusResult) string {
	var b strings.Builder

	b.WriteString("<h2>Weekly Prediction</h2>\n")
	fmt.Fprintf(&b, "<p>%d scoring runs, finished %s (took %s)</p>\n",
		res.Runs, res.GeneratedAt.Format("2006-01-02 15:04"), res.Elapsed.Round(time.Second))

	b.WriteString("<h3>Consensus Top 7</h3>\n")
	writeNumberTable(&b, res.Top7, res.TopTally)

	b.WriteString("<h3>39%-42% Band 7</h3>\n")
	if len(res.MidBand7) == 0 {
		b.WriteString("<p>no numbers landed in the band this week</p>\n")
	} else {
		writeNumberTable(&b, res.MidBand7, res.MidTally)
	}

	return b.String()
}

// FormatPredictionReport formats the straight high/low/mid picks.
func FormatPredictionReport(high, low, mid []model.ScoredNumber) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Prediction | %s</h2>\n", time.Now().Format("2006-01-02"))

	b.WriteString("<h3>Top 7</h3>\n")
	writeNumberTable(&b, high, nil)
	b.WriteString("<h3>Bottom 7</h3>\n")
	writeNumberTable(&b, low, nil)
	b.WriteString("<h3>Mid 7</h3>\n")
	writeNumberTable(&b, mid, nil)

	return b.String()
}

// FormatValidationReport formats a validation run into an HTML email body.
func FormatValidationReport(res model.ComprehensiveValidationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Validation Report | %s</h2>\n", time.Now().Format("2006-01"))

	if res.InsufficientData {
		fmt.Fprintf(&b, "<p>%s</p>\n", res.Summary)
		return b.String()
	}

	fmt.Fprintf(&b, "<p>draws validated: %d (skipped %d)</p>\n",
		res.Statistics.TotalValidations, res.Statistics.SkippedDraws)
	fmt.Fprintf(&b, "<p>average accuracy: %.4f | average matches: %.2f</p>\n",
		res.Statistics.AverageAccuracy, res.Statistics.AverageMatchCount)

	b.WriteString("<h3>Hit Rates (3+ matches)</h3>\n<ul>\n")
	fmt.Fprintf(&b, "<li>model: %.4f</li>\n", res.StrategyComparison.TopKHitRate)
	fmt.Fprintf(&b, "<li>random baseline: %.4f (uplift %+.4f)</li>\n",
		res.StrategyComparison.RandomHitRate, res.StrategyComparison.UpliftVsRandom)
	fmt.Fprintf(&b, "<li>frequency baseline: %.4f (uplift %+.4f)</li>\n",
		res.StrategyComparison.FrequencyHitRate, res.StrategyComparison.UpliftVsFrequency)
	b.WriteString("</ul>\n")

	b.WriteString("<h3>Match Distribution</h3>\n<ul>\n")
	for matches := 0; matches <= model.DrawnCount; matches++ {
		if count, ok := res.Statistics.MatchDistribution[matches]; ok {
			fmt.Fprintf(&b, "<li>%d matches: %d draws</li>\n", matches, count)
		}
	}
	b.WriteString("</ul>\n")

	if res.Backtest != nil {
		b.WriteString("<h3>Fixed Backtest</h3>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", res.Backtest.Summary)
	}

	fmt.Fprintf(&b, "<h3>Recommendations</h3>\n<p>%s</p>\n", res.Statistics.Recommendations)
	if res.RetrainingWarning.RetrainingNeeded {
		b.WriteString("<h3>⚠ Retraining Needed</h3>\n<ul>\n")
		for _, r := range res.RetrainingWarning.Recommendations {
			fmt.Fprintf(&b, "<li>%s</li>\n", r)
		}
		b.WriteString("</ul>\n")
	}

	return b.String()
}

func writeNumberTable(b *strings.Builder, numbers []model.ScoredNumber, tally map[int]int) {
	b.WriteString("<table border=\"1\" cellpadding=\"4\">\n")
	if tally != nil {
		b.WriteString("<tr><th>rank</th><th>number</th><th>runs</th><th>probability</th></tr>\n")
	} else {
		b.WriteString("<tr><th>rank</th><th>number</th><th>probability</th></tr>\n")
	}
	for i, sn := range numbers {
		if tally != nil {
			fmt.Fprintf(b, "<tr><td>%d</td><td><b>%d</b></td><td>%d</td><td>%.4f%%</td></tr>\n",
				i+1, sn.Number, tally[sn.Number], sn.Probability*100)
		} else {
			fmt.Fprintf(b, "<tr><td>%d</td><td><b>%d</b></td><td>%.4f%%</td></tr>\n",
				i+1, sn.Number, sn.Probability*100)
		}
	}
	b.WriteString("</table>\n")
}
