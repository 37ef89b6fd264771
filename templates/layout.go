package templates

// Layout is the main site template of the admin pages. It includes the
// header and footer and embeds the content for every other page.
var Layout = `
{{ define "layout" }}
<!DOCTYPE html>
<html>
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<link rel="stylesheet" href="/assets/stepform.css">
		<title>Form builder</title>
	</head>
	<body>
		<div class="full height">
			<div class="following bar light">
				<div class="ui container">
					<div class="ui top secondary menu">
						<span class="item brand">Form builder</span>
						<a class="item" href="/log">Submissions</a>
					</div>
				</div>
			</div>
			{{ template "content" . }}
		</div>
		<footer>
			<div class="ui container footertext">stepform</div>
		</footer>
	</body>
</html>
{{ end }}
`

// WidgetLayout is the page around a runtime form rendered inside the embed
// frame.  It carries the theme of the form and reports its height to the
// embedding page.
var WidgetLayout = `
{{ define "layout" }}
<!DOCTYPE html>
<html>
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<style>
			{{ template "themecss" .Style }}
			html, body { margin: 0; background: var(--sf-bg); }
		</style>
		<title>{{ .View.FormType }}</title>
	</head>
	<body class="sf-themed {{ .Classes }}">
		{{ template "content" . }}
		<script>
			(function () {
				if (window.parent === window) return;
				window.parent.postMessage({type: "stepform:resize", height: document.documentElement.scrollHeight}, "*");
			})();
		</script>
	</body>
</html>
{{ end }}
`

// ThemeCSS defines the style rules of a themed form.  The theme values are
// set as custom properties on .sf-themed so that the editor canvas and the
// runtime frame share the rules.
var ThemeCSS = `
{{ define "themecss" }}
.sf-themed {
	--sf-primary: {{ .Primary }};
	--sf-bg: {{ .Background }};
	--sf-text: {{ .Text }};
	--sf-heading: {{ .Heading }};
	--sf-radius: {{ .Radius }};
	--sf-gap: {{ .Gap }};
	--sf-font: {{ .Font }};
	background: var(--sf-bg);
	color: var(--sf-text);
	font-family: var(--sf-font);
}
.sf-form { display: flex; flex-direction: column; gap: var(--sf-gap); padding: var(--sf-gap); }
.sf-logo { max-height: 48px; align-self: center; }
.sf-title { color: var(--sf-heading); margin: 0; font-size: 1.25rem; }
.sf-description { margin: 0; opacity: 0.8; }
.sf-progress { display: flex; gap: var(--sf-gap); list-style: none; margin: 0; padding: 0; font-size: 0.8rem; }
.sf-progress li { opacity: 0.5; }
.sf-progress li.sf-current, .sf-progress li.sf-done { opacity: 1; }
.sf-progress li.sf-current .sf-step-number { background: var(--sf-primary); color: #fff; }
.sf-step-number { display: inline-block; width: 1.5em; height: 1.5em; line-height: 1.5em; text-align: center; border-radius: 50%; border: 1px solid var(--sf-primary); margin-right: 0.25em; }
.sf-field { display: flex; flex-direction: column; gap: 4px; }
.sf-field input { font: inherit; color: inherit; padding: 8px 10px; }
.sf-required { color: #dc2626; margin-left: 2px; }
.sf-help { opacity: 0.7; }
.sf-error { color: #dc2626; font-size: 0.875rem; }
.sf-input-outlined .sf-field input { border: 1px solid #d1d5db; border-radius: var(--sf-radius); background: transparent; }
.sf-input-filled .sf-field input { border: 0; border-radius: var(--sf-radius); background: rgba(0, 0, 0, 0.06); }
.sf-input-underlined .sf-field input { border: 0; border-bottom: 1px solid #9ca3af; border-radius: 0; background: transparent; }
.sf-invalid input { border-color: #dc2626 !important; }
.sf-actions { display: flex; flex-direction: row-reverse; gap: var(--sf-gap); }
.sf-actions button { font: inherit; padding: 8px 16px; border-radius: var(--sf-radius); cursor: pointer; }
.sf-secondary { background: transparent; border: 1px solid #d1d5db; color: inherit; }
.sf-btn-solid .sf-primary { background: var(--sf-primary); border: 1px solid var(--sf-primary); color: #fff; }
.sf-btn-outline .sf-primary { background: transparent; border: 1px solid var(--sf-primary); color: var(--sf-primary); }
.sf-btn-ghost .sf-primary { background: transparent; border: 0; color: var(--sf-primary); }
.sf-full .sf-primary { flex: 1; }
{{ end }}
`
