package dashboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"reviews-dashboard/charts"
	"reviews-dashboard/models"
)

//go:embed templates/index.html
var indexHTML string

//go:embed narrative.md
var narrativeMarkdown []byte

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Figure names served under /api/figures/{name} and used as element ids.
const (
	FigureSentimentTop    = "sentiment-top"
	FigureSentimentBottom = "sentiment-bottom"
	FigureTreemap         = "treemap"
)

type card struct {
	Label string
	Value string
}

type pageData struct {
	Title         string
	Heading       string
	Period        string
	StylesheetURL string
	PlotlyURL     string
	Cards         []card
	Figures       map[string]*charts.Figure
	Narrative     template.HTML
	WordCloud     template.URL
	Footer        string
}

// view is everything the page needs, computed once from the report.
type view struct {
	figures   map[string]*charts.Figure
	wordCloud []byte
	narrative template.HTML
	cards     []card
}

func buildView(r *models.Report) (*view, error) {
	cloud, err := charts.WordCloudPNG(r.Words)
	if err != nil {
		return nil, err
	}
	narrative, err := renderMarkdown(narrativeMarkdown)
	if err != nil {
		return nil, err
	}

	return &view{
		figures: map[string]*charts.Figure{
			FigureSentimentTop:    charts.SentimentBar(charts.TopSentimentTitle(r.FocusSize), r.Focus.Top, charts.Viridis),
			FigureSentimentBottom: charts.SentimentBar(charts.BottomSentimentTitle(r.FocusSize), r.Focus.Bottom, charts.Viridis),
			FigureTreemap:         charts.TopicTreemap(r.Topics),
		},
		wordCloud: cloud,
		narrative: narrative,
		cards:     kpiCards(r),
	}, nil
}

func kpiCards(r *models.Report) []card {
	p := message.NewPrinter(language.English)
	return []card{
		{Label: "Total de reseñas analizadas", Value: p.Sprintf("%d", r.TotalReviews)},
		{Label: "Promedio % positivas (por lugar)", Value: fmt.Sprintf("%.1f%%", r.AvgPositivePercent)},
		{Label: "Lugares en foco (Top / Bottom)", Value: p.Sprintf("%d", r.Focus.Len())},
	}
}

// renderMarkdown converts the narrative panel to HTML. The source ships with
// the binary, so its HTML is trusted.
func renderMarkdown(src []byte) (template.HTML, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("dashboard: render narrative: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (s *Server) renderPage(w io.Writer) error {
	data := pageData{
		Title:         s.opts.Title,
		Heading:       s.opts.Heading,
		Period:        s.opts.Period,
		StylesheetURL: s.opts.StylesheetURL,
		PlotlyURL:     s.opts.PlotlyURL,
		Cards:         s.view.cards,
		Figures:       s.view.figures,
		Narrative:     s.view.narrative,
		WordCloud:     template.URL(charts.DataURI(s.view.wordCloud)),
		Footer:        s.opts.Footer,
	}
	return indexTemplate.Execute(w, data)
}
