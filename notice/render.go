package notice

import (
	"strings"
	"text/template"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/courtflow/progression/court"
)

var templates = template.Must(template.New("notice").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2 January 2006") },
}).Parse(heredoc.Doc(`
	{{define "header"}}{{.Title}}
	Case: {{.Case.Identifier.CaseURN}}{{with .Case.Identifier.ProsecutionAuthorityReference}} ({{.}}){{end}}
	Defendant: {{.Name}}
	Date: {{date .Date}}
	{{end}}

	{{define "public-list"}}{{template "header" .}}
	Offences:
	{{range .Defendant.Offences}}- {{.OffenceCode}} {{.Title}}
	{{end}}{{end}}

	{{define "press-list"}}{{template "header" .}}
	Offences:
	{{range .Defendant.Offences}}- {{.OffenceCode}} {{.Title}}{{with .Wording}}: {{.}}{{end}}
	{{end}}{{end}}

	{{define "result-list"}}{{template "header" .}}
	Results:
	{{range .Defendant.Offences}}{{$offence := .}}{{range .JudicialResults}}- {{$offence.OffenceCode}} {{.Label}} ({{.Category}})
	{{end}}{{end}}{{end}}
`)))

var titles = map[Kind]string{
	PublicList: "PUBLIC COURT LIST",
	PressList:  "PRESS COURT LIST",
	ResultList: "COURT RESULTS",
}

type document struct {
	Title     string
	Case      court.ProsecutionCase
	Defendant court.Defendant
	Name      string
	Date      time.Time
}

func render(kind Kind, pc court.ProsecutionCase, d court.Defendant, date time.Time) (string, error) {
	doc := document{
		Title:     titles[kind],
		Case:      pc,
		Defendant: d,
		Name:      defendantName(d),
		Date:      date,
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, string(kind), doc); err != nil {
		return "", err
	}

	return b.String(), nil
}

func defendantName(d court.Defendant) string {
	if d.Person == nil {
		return d.ID.String()
	}
	return strings.TrimSpace(d.Person.FirstName + " " + strings.ToUpper(d.Person.LastName))
}
