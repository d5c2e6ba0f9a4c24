package pipeline

import (
	"fmt"
	"sort"

	"github.com/betjuliano/sefa-dashboard/internal/model"
)

// RunState tracks a processing run through its phases
type RunState string

const (
	StateIdle             RunState = "idle"
	StateEncodingResolved RunState = "encoding_resolved"
	StateHeadersMapped    RunState = "headers_mapped"
	StateRowsConverted    RunState = "rows_converted"
	StateAggregated       RunState = "aggregated"
	StateDone             RunState = "done"
	StateFailed           RunState = "failed"
)

const (
	// DefaultGoal is the target mean used when the caller supplies none
	DefaultGoal = 4.0
	// minResponseRate is the floor below which a row is excluded from
	// aggregation but retained for audit
	minResponseRate = 0.30
	// maxReportedItems caps affected-item lists on accumulated issues
	maxReportedItems = 20
)

// Options tune a single processing run
type Options struct {
	// QuestionSet forces a schema variant; the zero value means infer
	// it from the input headers.
	QuestionSet model.QuestionSet
	// Goal is the target mean for classification; 0 means DefaultGoal
	Goal float64
	// Delimiter overrides delimiter sniffing; 0 means sniff
	Delimiter rune
	// Strict turns unknown scale tokens into hard failures
	Strict bool
}

// Processor runs the normalization and scoring pipeline over one raw survey
// export. It owns no long-lived state, never mutates the caller's input or
// the shared schemas, and is safe for concurrent use.
type Processor struct {
	schemas    map[model.QuestionSet]*model.Schema
	normalizer *Normalizer
	resolver   *EncodingResolver
	mapper     *MappingManager
}

// NewProcessor creates a processor over pre-validated, read-only schemas
func NewProcessor(schemas map[model.QuestionSet]*model.Schema) *Processor {
	normalizer := NewNormalizer()
	return &Processor{
		schemas:    schemas,
		normalizer: normalizer,
		resolver:   NewEncodingResolver(),
		mapper:     NewMappingManager(normalizer),
	}
}

// run is the mutable state of a single Process call
type run struct {
	state  RunState
	opts   Options
	schema *model.Schema
	report model.ValidationReport
	meta   model.ProcessingMetadata
}

func (r *run) fail(err error) error {
	r.state = StateFailed
	return err
}

// Process runs the pipeline over raw file bytes. Fatal conditions return a
// typed error and no partial data; recoverable problems are accumulated
// into the result's validation report instead.
func (p *Processor) Process(raw []byte, opts Options) (*model.ProcessedData, error) {
	if opts.Goal == 0 {
		opts.Goal = DefaultGoal
	}
	r := &run{state: StateIdle, opts: opts}

	decoded, err := p.resolver.Resolve(raw)
	if err != nil {
		return nil, r.fail(err)
	}
	r.state = StateEncodingResolved
	r.meta.EncodingUsed = decoded.Encoding
	r.meta.EncodingDegraded = decoded.Degraded

	table, err := ParseTable(decoded.Text, opts.Delimiter)
	if err != nil {
		return nil, r.fail(err)
	}

	set := opts.QuestionSet
	if !set.Valid() {
		set = p.inferQuestionSet(table.Headers, &r.report)
	}
	schema, ok := p.schemas[set]
	if !ok {
		return nil, r.fail(fmt.Errorf("no schema loaded for question set %q", set))
	}
	r.schema = schema
	r.meta.QuestionSet = set
	r.meta.Goal = opts.Goal
	r.meta.TotalQuestionsExpected = schema.QuestionCount()

	mapping, mapReport := p.mapper.Resolve(table.Headers, schema)
	r.report.Merge(&mapReport)
	if len(mapping.Matches) < 1 {
		return nil, r.fail(fmt.Errorf("%w: schema %s against %d headers", ErrNoQuestionsResolved, set, len(table.Headers)))
	}
	r.state = StateHeadersMapped
	r.meta.TotalQuestionsResolved = len(mapping.Matches)
	r.meta.SkippedQuestions = append([]string(nil), mapping.MissingQuestions...)

	converter := NewScaleConverter(p.normalizer).Strict(opts.Strict)
	rows, err := p.convertRows(r, table, &mapping, converter)
	if err != nil {
		return nil, r.fail(err)
	}
	r.state = StateRowsConverted

	data := p.aggregate(r, &mapping, rows, converter)
	r.state = StateAggregated

	data.Metadata = r.meta
	data.Report = r.report
	r.state = StateDone
	return data, nil
}

// inferQuestionSet picks the schema variant whose questions resolve against
// the most headers. A tie falls back to the larger set and is surfaced as
// an informational issue so callers can override explicitly.
func (p *Processor) inferQuestionSet(headers []string, report *model.ValidationReport) model.QuestionSet {
	counts := make(map[model.QuestionSet]int, len(p.schemas))
	for set, schema := range p.schemas {
		mapping, _ := p.mapper.Resolve(headers, schema)
		counts[set] = len(mapping.Matches)
	}
	// base20 first so a tie falls back to the larger set
	best := model.QuestionSet("")
	tied := false
	for _, set := range []model.QuestionSet{model.QuestionSetBase20, model.QuestionSetBase8} {
		if _, ok := p.schemas[set]; !ok {
			continue
		}
		switch {
		case best == "":
			best = set
		case counts[set] > counts[best]:
			best, tied = set, false
		case counts[set] == counts[best]:
			tied = true
		}
	}
	if best == "" {
		return model.QuestionSetBase20
	}
	msg := fmt.Sprintf("question set %s inferred from headers (%d of %d resolved)", best, counts[best], p.schemas[best].QuestionCount())
	if tied {
		msg = fmt.Sprintf("question sets resolved equally (%d questions each), defaulting to %s", counts[best], best)
	}
	report.Add(model.IssueVariantInferred, model.SeverityInfo, msg)
	return best
}

// convertRows turns every raw record into a scored row. Rows below the
// response-rate floor are kept with Valid=false; they stay visible to the
// caller but are excluded from aggregation.
func (p *Processor) convertRows(r *run, table *RawTable, mapping *model.HeaderMapping, converter *ScaleConverter) ([]model.ResolvedRow, error) {
	rows := make([]model.ResolvedRow, 0, len(table.Rows))
	expected := r.schema.QuestionCount()

	unknownTokens := make(map[string]struct{})
	var lowRateRows []string

	for i := range table.Rows {
		row := model.ResolvedRow{
			Scores:       make(map[string]int, len(mapping.Matches)),
			Profile:      make(map[string]string, len(mapping.ProfileColumns)),
			Satisfaction: model.MissingScore,
		}
		answered := 0
		for _, match := range mapping.Matches {
			cell := table.Cell(i, match.Header)
			score, err := converter.Convert(cell, model.ScaleLikert5)
			if err != nil {
				return nil, fmt.Errorf("row %d, question %s: %w", i+1, match.QuestionCode, err)
			}
			if model.IsMissing(score) && cell != "" {
				if len(unknownTokens) < maxReportedItems {
					unknownTokens[cell] = struct{}{}
				}
			}
			row.Scores[match.QuestionCode] = score
			if !model.IsMissing(score) {
				answered++
			}
		}
		for header, field := range mapping.ProfileColumns {
			row.Profile[field] = table.Cell(i, header)
		}
		if mapping.SatisfactionHeader != "" {
			score, err := converter.Convert(table.Cell(i, mapping.SatisfactionHeader), model.ScaleSatisfaction5)
			if err != nil {
				return nil, fmt.Errorf("row %d, satisfaction: %w", i+1, err)
			}
			row.Satisfaction = score
		}
		if expected > 0 {
			row.ResponseRate = float64(answered) / float64(expected)
		}
		row.Valid = row.ResponseRate >= minResponseRate
		if !row.Valid && len(lowRateRows) < maxReportedItems {
			lowRateRows = append(lowRateRows, fmt.Sprintf("%d", i+1))
		}
		rows = append(rows, row)
	}

	if len(unknownTokens) > 0 {
		items := make([]string, 0, len(unknownTokens))
		for tok := range unknownTokens {
			items = append(items, tok)
		}
		sort.Strings(items)
		r.report.Add(model.IssueInvalidScaleValue, model.SeverityWarning,
			"unrecognized scale answers treated as missing", items...)
	}
	if len(lowRateRows) > 0 {
		r.report.Add(model.IssueLowResponseRate, model.SeverityWarning,
			fmt.Sprintf("rows below %.0f%% response rate excluded from aggregation", minResponseRate*100),
			lowRateRows...)
	}
	return rows, nil
}

// aggregate builds per-question and per-dimension statistics over valid
// rows. Dimension means are means of question means, not pooled answer
// means, so sparsely answered questions weigh the same as popular ones.
func (p *Processor) aggregate(r *run, mapping *model.HeaderMapping, rows []model.ResolvedRow, converter *ScaleConverter) *model.ProcessedData {
	byCode := make(map[string]*RunningStats, len(mapping.Matches))
	for _, match := range mapping.Matches {
		byCode[match.QuestionCode] = &RunningStats{}
	}
	var satisfaction []int

	validRows := 0
	for _, row := range rows {
		if !row.Valid {
			continue
		}
		validRows++
		for code, score := range row.Scores {
			if st, ok := byCode[code]; ok {
				st.Add(score)
			}
		}
		satisfaction = append(satisfaction, row.Satisfaction)
	}

	goal := r.opts.Goal
	dimensions := make([]model.DimensionAggregate, 0, len(r.schema.Dimensions))
	var dimMeans []float64
	for _, dim := range r.schema.Dimensions {
		agg := model.DimensionAggregate{Code: dim.Code, Name: dim.Name}
		var qMeans []float64
		for _, q := range dim.Questions {
			st, resolved := byCode[q.Code]
			if !resolved {
				continue
			}
			qa := model.QuestionAggregate{
				Code:         q.Code,
				Text:         q.Text,
				ValidCount:   st.Count,
				InvalidCount: st.Invalid,
			}
			if st.Count > 0 {
				qa.Mean = st.Mean()
				qa.StdDev = st.StdDev()
				qa.Classification = classify(qa.Mean, goal)
				qMeans = append(qMeans, qa.Mean)
			} else {
				r.meta.SkippedQuestions = append(r.meta.SkippedQuestions, q.Code)
			}
			agg.Questions = append(agg.Questions, qa)
		}
		if len(qMeans) > 0 {
			agg.Mean = meanOf(qMeans)
			agg.Classification = classify(agg.Mean, goal)
			dimMeans = append(dimMeans, agg.Mean)
		}
		dimensions = append(dimensions, agg)
	}

	data := &model.ProcessedData{
		Rows:       rows,
		Mapping:    *mapping,
		Dimensions: dimensions,
	}
	if len(dimMeans) > 0 {
		data.OverallMean = meanOf(dimMeans)
	}
	if sat := converter.ColumnStatistics(satisfaction); sat.ValidCount > 0 {
		data.SatisfactionMean = sat.Mean
		data.SatisfactionCount = sat.ValidCount
	}
	r.meta.RowsTotal = len(rows)
	r.meta.RowsValid = validRows
	r.meta.RowsInvalid = len(rows) - validRows
	sort.Strings(r.meta.SkippedQuestions)
	return data
}

// classify buckets a mean against the goal. Means below the critical line
// are critical regardless of goal; reaching the goal is positive.
func classify(mean, goal float64) model.Classification {
	switch {
	case mean < model.CriticalThreshold:
		return model.ClassCritical
	case mean >= goal:
		return model.ClassPositive
	default:
		return model.ClassNeutral
	}
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
