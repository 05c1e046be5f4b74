package report

import (
	"bytes"
	"html/template"
	"path/filepath"

	"CopperAnalytics/internal/model"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>LME Copper Price Analysis</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        .endpoint { background: #f5f5f5; padding: 15px; margin: 10px 0; border-radius: 5px; }
        code { background: #e0e0e0; padding: 2px 5px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>LME Copper Price Analysis</h1>
    <p>Source: <a href="{{.Source}}">{{.Source}}</a></p>
    <p>Last run {{.Timestamp}}: {{.Records}} records from {{.Start}} to {{.End}}, trend {{.Trend}}.</p>

    <h2>Endpoints</h2>
    <div class="endpoint">
        <h3><code>GET /{{.Report}}</code></h3>
        <p>Full analysis with trend, seasonality, month-over-month and weekday results.</p>
        <a href="{{.Report}}">View JSON</a>
    </div>
    <div class="endpoint">
        <h3><code>GET /{{.Companion}}</code></h3>
        <p>Timestamp of the last successful run.</p>
        <a href="{{.Companion}}">View JSON</a>
    </div>
</body>
</html>
`))

type indexData struct {
	Source    string
	Timestamp string
	Records   int
	Start     string
	End       string
	Trend     model.TrendDirection
	Report    string
	Companion string
}

// RenderIndex renders the landing page linking the two JSON documents by
// their base names.
func RenderIndex(r *model.AnalysisReport, reportPath, companionPath string) ([]byte, error) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{
		Source:    r.DataSource,
		Timestamp: r.Timestamp,
		Records:   r.Metadata.TotalRecords,
		Start:     r.Metadata.DateRange.Start,
		End:       r.Metadata.DateRange.End,
		Trend:     r.Results.Trend.TrendDirection,
		Report:    filepath.Base(reportPath),
		Companion: filepath.Base(companionPath),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
