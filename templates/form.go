package templates

// Field renders one input with its label, help text and error.  The canvas
// of the editor and the runtime form use the same markup.
const Field = `
{{ define "field" }}
<div class="sf-field{{ if .Error }} sf-invalid{{ end }}">
	{{ if .ShowLabels }}<label for="sf-{{ .ID }}">{{ .Label }}{{ if .Required }}<span class="sf-required" aria-hidden="true">*</span>{{ end }}</label>{{ end }}
	<input id="sf-{{ .ID }}" name="{{ .Name }}" type="{{ .InputType }}" value="{{ .Value }}"{{ with .Placeholder }} placeholder="{{ . }}"{{ end }}{{ if not .ShowLabels }} aria-label="{{ .Label }}"{{ end }}{{ if .Required }} aria-required="true"{{ end }}{{ if .Error }} aria-invalid="true" aria-describedby="sf-{{ .ID }}-error"{{ end }}>
	{{ with .HelpText }}<small class="sf-help">{{ . }}</small>{{ end }}
	{{ if .Error }}<span id="sf-{{ .ID }}-error" class="sf-error" role="alert">{{ .Error }}</span>{{ end }}
</div>
{{ end }}
`

// Step renders the progress indicator, heading and fields of a step.
const Step = `
{{ define "progress" }}
{{ if .ShowProgress }}
<ol class="sf-progress" aria-label="Progress">
	{{ range .Progress }}
	<li class="{{ if .Current }}sf-current{{ else if .Done }}sf-done{{ end }}"{{ if .Current }} aria-current="step"{{ end }}><span class="sf-step-number">{{ .Number }}</span><span class="sf-step-title">{{ .Title }}</span></li>
	{{ end }}
</ol>
{{ end }}
{{ end }}

{{ define "step" }}
{{ template "progress" . }}
<h2 class="sf-title">{{ .Title }}</h2>
{{ with .Description }}<p class="sf-description">{{ . }}</p>{{ end }}
{{ range .Fields }}{{ template "field" . }}{{ end }}
{{ end }}
`

// Form is the runtime form of the current step.  The forward button comes
// first so that pressing enter moves forward.
const Form = `
{{ define "content" }}
<form class="sf-form" action="{{ .Action }}" method="post" novalidate>
	<input type="hidden" name="session" value="{{ .Session }}">
	<input type="hidden" name="origin" value="{{ .Origin }}">
	{{ with .View.Theme.LogoURL }}<img class="sf-logo" src="{{ . }}" alt="">{{ end }}
	{{ template "step" .View.Step }}
	<div class="sf-actions">
		<button type="submit" name="action" value="{{ .View.Step.Action }}" class="sf-primary">{{ .View.Step.ActionLabel }}</button>
		{{ if not .View.Step.First }}<button type="submit" name="action" value="back" class="sf-secondary">Back</button>{{ end }}
	</div>
</form>
{{ end }}
`

// Submitted replaces the form once it has been submitted and hands the
// values to the embedding page.
const Submitted = `
{{ define "content" }}
<div class="sf-form" role="status">
	<h2 class="sf-title">Thank you</h2>
	<p class="sf-description">Your form has been submitted.</p>
</div>
{{ if .Origin }}
<script>
	window.parent.postMessage({type: "stepform:submit", tenant: {{ .View.Tenant }}, formType: {{ .View.FormType }}, values: {{ .Values }}}, {{ .Origin }});
</script>
{{ end }}
{{ end }}
`

// vim: ft=gohtmltmpl
