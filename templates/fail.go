package templates

var Fail = `
{{ define "content" }}

<br><br>
<h1>{{ .StatusCode }}: {{ .StatusText }}</h1>
<div style="color: red; font-weight: bold">
{{ .Message }}
</div>

{{ end }}
`

// WidgetFail replaces the form inside the embed frame when the form could
// not be loaded.
var WidgetFail = `
{{ define "content" }}
<div class="sf-form" role="alert">
	<p class="sf-error">This form is currently unavailable.</p>
</div>
{{ end }}
`
