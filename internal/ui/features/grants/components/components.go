// Package components renders the grants UI as templ components.
package components

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/ui/resources"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("grants").
		Funcs(template.FuncMap{"toggleURL": ToggleURL}).
		ParseFS(templateFS, "templates/*.html"),
)

// FormSignals are the datastar signals bound to the add-grant form.
type FormSignals struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PageData is the input of the full page template.
type PageData struct {
	Title          string
	IsDev          bool
	Signals        string
	Stylesheet     string
	DatastarScript string
	View           app.View
}

// Page renders the full HTML document with the app shell server-rendered.
func Page(title string, isDev bool, view app.View) templ.Component {
	signals, _ := json.Marshal(FormSignals{Name: view.Name, Description: view.Description})
	return render("page", PageData{
		Title:          title,
		IsDev:          isDev,
		Signals:        string(signals),
		Stylesheet:     resources.StaticPath(resources.Stylesheet),
		DatastarScript: resources.DatastarScript,
		View:           view,
	})
}

// AppShell renders the #app element patched by SSE updates.
func AppShell(view app.View) templ.Component {
	return render("app", view)
}

// ToggleURL returns the action URL that toggles tag.
func ToggleURL(tag string) string {
	return "/actions/tags/" + url.PathEscape(tag) + "/toggle"
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}
