package analyzer

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/identity"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
)

const (
	TitleSummary     = "CSV Data Analysis Summary"
	TitleOverview    = "Dataset Overview"
	TitleMissing     = "Missing Data"
	TitleNumeric     = "Numeric Column Analysis"
	TitleText        = "Text Data Analysis"
	TitleTemporal    = "Temporal Analysis"
	TitleCorrelation = "Correlation Analysis"
	TitleInsights    = "Key Insights"
	TitleAuth        = "Authentication"
)

const (
	missingWarningRatio  = 0.3
	maxDistinctForCounts = 15
	topValueCount        = 5
	sampleSize           = 3
	strongCorrelation    = 0.7
	verySmallRows        = 10
	smallRows            = 100

	secondsPerDay = 24 * 60 * 60
)

// IdentityResolver looks up the account behind an access token. A nil user
// with a nil error means the token was not accepted.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*identity.User, error)
}

type Options struct {
	// Rand drives sampling of high-cardinality text columns. Nil uses the
	// process-wide source.
	Rand *rand.Rand

	// Identity and IdentityToken enable the Authentication section. The
	// lookup is skipped when either is unset.
	Identity      IdentityResolver
	IdentityToken string
}

// Profile builds the narrative summary of t. Stages run in a fixed order;
// only the identity lookup touches the network and its failure never stops
// the summary.
func Profile(ctx context.Context, t *models.Table, opts Options) *Summary {
	p := newProfile(t, opts)

	s := &Summary{}
	s.add(Section{Level: 1, Title: TitleSummary})
	s.add(p.overview())
	if sec, ok := p.missingData(); ok {
		s.add(sec)
	}
	if sec, ok := p.numeric(); ok {
		s.add(sec)
	}
	if sec, ok := p.text(); ok {
		s.add(sec)
	}
	if sec, ok := p.temporal(); ok {
		s.add(sec)
	}
	if sec, ok := p.correlation(); ok {
		s.add(sec)
	}
	s.add(p.insights())
	if sec, ok := p.authentication(ctx); ok {
		s.add(sec)
	}
	return s
}

type profile struct {
	table       *models.Table
	opts        Options
	numericCols []*models.Column
	textCols    []*models.Column
	dateCols    []*models.Column
}

// newProfile partitions the columns once. Date detection only looks at
// text columns.
func newProfile(t *models.Table, opts Options) *profile {
	p := &profile{table: t, opts: opts, numericCols: t.NumericColumns()}
	for _, c := range t.TextColumns() {
		if isDateColumn(c.Present()) {
			p.dateCols = append(p.dateCols, c)
		} else {
			p.textCols = append(p.textCols, c)
		}
	}
	return p
}

func (p *profile) overview() Section {
	return Section{
		Level: 2,
		Title: TitleOverview,
		Lines: []string{
			fmt.Sprintf("I've analyzed your CSV file and found it contains %d rows and %d columns.", p.table.Rows, len(p.table.Columns)),
			"The columns are: " + strings.Join(p.table.ColumnNames(), ", "),
		},
	}
}

func (p *profile) missingData() (Section, bool) {
	total := p.table.MissingTotal()
	if total == 0 {
		return Section{}, false
	}

	sec := Section{Level: 2, Title: TitleMissing}
	sec.Lines = append(sec.Lines, "I've detected some missing values in your dataset:")
	for _, c := range p.table.Columns {
		n := c.MissingCount()
		if n == 0 {
			continue
		}
		pct := float64(n) / float64(p.table.Rows) * 100
		sec.Lines = append(sec.Lines, fmt.Sprintf("- %s: %d missing values (%.1f%% of the data)", c.Name, n, pct))
	}

	cells := float64(p.table.Rows * len(p.table.Columns))
	if float64(total) > cells*missingWarningRatio {
		sec.Lines = append(sec.Lines, "\nNote: Your dataset has significant missing data which may affect analysis quality.")
	}
	return sec, true
}

func (p *profile) numeric() (Section, bool) {
	if len(p.numericCols) == 0 {
		return Section{}, false
	}

	sec := Section{Level: 2, Title: TitleNumeric}
	sec.Lines = append(sec.Lines, "Here are insights about your numeric data:")
	for _, c := range p.numericCols {
		st := describe(c.PresentNumbers())
		sec.Lines = append(sec.Lines,
			subheading(c.Name),
			fmt.Sprintf("- Range: %s to %s", formatStat(st.Min), formatStat(st.Max)),
			"- Average: "+formatStat(st.Mean),
			"- Median: "+formatStat(st.Median),
		)
		if st.Outliers > 0 {
			sec.Lines = append(sec.Lines, fmt.Sprintf("- Potential outliers: %d values outside the expected range", st.Outliers))
		}
	}
	return sec, true
}

// formatStat prints v with two decimals. Infinities and NaN are spelled
// inf, -inf and nan.
func formatStat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.2f", v)
}

type valueCount struct {
	Value string
	Count int
}

// countValues tallies present values, most frequent first. Equal counts keep
// first-seen order.
func countValues(values []string) []valueCount {
	index := make(map[string]int)
	var counts []valueCount
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, valueCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

func (p *profile) text() (Section, bool) {
	if len(p.textCols) == 0 {
		return Section{}, false
	}

	sec := Section{Level: 2, Title: TitleText}
	for _, c := range p.textCols {
		present := c.Present()
		counts := countValues(present)
		unique := len(counts)

		blank := 0
		for i, v := range c.Raw {
			if c.Missing[i] || strings.TrimSpace(v) == "" {
				blank++
			}
		}

		sec.Lines = append(sec.Lines,
			subheading(c.Name),
			fmt.Sprintf("- Contains %d unique values", unique),
		)
		if blank > 0 {
			sec.Lines = append(sec.Lines, fmt.Sprintf("- Has %d empty or blank entries", blank))
		}

		switch {
		case unique > 1 && unique <= maxDistinctForCounts:
			sec.Lines = append(sec.Lines, "- Value distribution:")
			for i, vc := range counts {
				if i == topValueCount {
					break
				}
				pct := float64(vc.Count) / float64(p.table.Rows) * 100
				sec.Lines = append(sec.Lines, fmt.Sprintf("  * %s: %d occurrences (%.1f%%)", truncate(vc.Value), vc.Count, pct))
			}
		case unique > maxDistinctForCounts:
			samples := p.sample(present, sampleSize)
			if len(samples) > 0 {
				sec.Lines = append(sec.Lines, "- Sample values:")
				for _, v := range samples {
					sec.Lines = append(sec.Lines, "  * "+truncate(v))
				}
			}
		}
	}
	return sec, true
}

// sample draws up to n values without replacement.
func (p *profile) sample(values []string, n int) []string {
	if n > len(values) {
		n = len(values)
	}
	intN := rand.IntN
	if p.opts.Rand != nil {
		intN = p.opts.Rand.IntN
	}

	pool := append([]string(nil), values...)
	for i := 0; i < n; i++ {
		j := i + intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func (p *profile) temporal() (Section, bool) {
	if len(p.dateCols) == 0 {
		return Section{}, false
	}

	sec := Section{Level: 2, Title: TitleTemporal}
	sec.Lines = append(sec.Lines, "I've identified potential date columns in your dataset:")
	for _, c := range p.dateCols {
		sec.Lines = append(sec.Lines, subheading(c.Name))
		earliest, latest, ok := dateRange(c.Present())
		if !ok {
			continue
		}
		days := (latest.Unix() - earliest.Unix()) / secondsPerDay
		sec.Lines = append(sec.Lines, fmt.Sprintf("- Date range: %s to %s (%d days)",
			earliest.UTC().Format("2006-01-02"), latest.UTC().Format("2006-01-02"), days))
	}
	return sec, true
}

func (p *profile) correlation() (Section, bool) {
	if len(p.numericCols) < 2 {
		return Section{}, false
	}

	series := make([][]float64, len(p.numericCols))
	for i, c := range p.numericCols {
		series[i] = c.Numbers
	}
	matrix := correlationMatrix(series)

	var pairs []string
	for i := range p.numericCols {
		for j := i + 1; j < len(p.numericCols); j++ {
			r := matrix[i][j]
			if math.IsNaN(r) || math.Abs(r) < strongCorrelation {
				continue
			}
			direction := "negative"
			if r > 0 {
				direction = "positive"
			}
			pairs = append(pairs, fmt.Sprintf("- %s and %s: %s correlation (%.2f)", p.numericCols[i].Name, p.numericCols[j].Name, direction, r))
		}
	}

	sec := Section{Level: 2, Title: TitleCorrelation}
	if len(pairs) == 0 {
		sec.Lines = []string{"No strong correlations found among the numeric variables."}
		return sec, true
	}
	sec.Lines = append([]string{"I found strong relationships between these variables:"}, pairs...)
	return sec, true
}

func (p *profile) insights() Section {
	sec := Section{Level: 2, Title: TitleInsights}
	switch {
	case p.table.Rows < verySmallRows:
		sec.Lines = append(sec.Lines, "- Your dataset is very small, which limits statistical analysis.")
	case p.table.Rows < smallRows:
		sec.Lines = append(sec.Lines, "- Your dataset is relatively small. Consider collecting more data for more robust analysis.")
	}
	if p.table.MissingTotal() > 0 {
		sec.Lines = append(sec.Lines, "- Data contains missing values that should be addressed before in-depth analysis.")
	}
	return sec
}

// authentication asks the identity resolver who owns the token. A rejected
// token adds nothing; a failed lookup adds a note with the error.
func (p *profile) authentication(ctx context.Context) (Section, bool) {
	if p.opts.Identity == nil || p.opts.IdentityToken == "" {
		return Section{}, false
	}

	user, err := p.opts.Identity.Resolve(ctx, p.opts.IdentityToken)
	if err != nil {
		return Section{Lines: []string{"\nNote: GitHub authentication error: " + err.Error()}}, true
	}
	if user == nil {
		return Section{}, false
	}

	login := user.Login
	if login == "" {
		login = "Unknown"
	}
	return Section{
		Level: 2,
		Title: TitleAuth,
		Lines: []string{"- Analysis requested by GitHub user: " + login},
	}, true
}
