package templates

// Editor is the authoring page of a tenant form: field palette, canvas of
// the active step, step manager, property panel and theme editor.  Every
// control posts an op to the editor URL; dragging is a shortcut for the
// same ops.
const Editor = `
{{ define "content" }}
<style>
	{{ template "themecss" .Style }}
	.sf-editor { display: grid; grid-template-columns: 200px 1fr 320px; gap: 16px; padding: 16px; }
	.sf-panel { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; }
	.sf-panel h4 { margin-top: 0; }
	.sf-palette li { cursor: grab; list-style: none; margin-bottom: 4px; }
	.sf-canvas { min-height: 240px; border: 1px dashed #9ca3af; border-radius: 6px; }
	.sf-canvas-item { position: relative; padding: 4px; border: 1px solid transparent; border-radius: 4px; cursor: grab; }
	.sf-canvas-item.sf-selected { border-color: #3b82f6; }
	.sf-canvas-tools { display: flex; gap: 4px; margin-top: 4px; }
	.sf-canvas-tools form { display: inline; }
	.sf-steps li { list-style: none; display: flex; gap: 4px; align-items: center; }
	.sf-steps li.sf-active { font-weight: bold; }
	.sf-issues .sf-issue-error { color: #dc2626; }
	.sf-issues .sf-issue-warning { color: #b45309; }
	.sf-notice { padding: 8px 16px; }
</style>

{{ with .Message }}<div class="sf-notice ui positive message" role="status">{{ . }}</div>{{ end }}
{{ with .Error }}<div class="sf-notice ui negative message" role="alert">{{ . }}</div>{{ end }}

<div class="sf-editor">
	<div class="sf-panel sf-palette">
		<h4>Fields</h4>
		<ul>
			{{ range .Palette }}
			<li draggable="true" data-type="{{ .Type }}">
				<form method="post" action="{{ $.Action }}">
					<input type="hidden" name="op" value="add-field">
					<input type="hidden" name="type" value="{{ .Type }}">
					<button class="ui mini button" title="Add {{ .Label }} field to the active step">{{ .Label }}</button>
				</form>
			</li>
			{{ end }}
		</ul>

		<h4>Steps</h4>
		<ol class="sf-steps">
			{{ range .Steps }}
			<li class="{{ if .Active }}sf-active{{ end }}">
				<form method="post" action="{{ $.Action }}">
					<input type="hidden" name="op" value="activate-step">
					<input type="hidden" name="step" value="{{ .ID }}">
					<button class="ui mini basic button"{{ if .Active }} aria-current="step"{{ end }}>{{ .Number }}. {{ .Title }} ({{ .FieldCount }})</button>
				</form>
				<form method="post" action="{{ $.Action }}">
					<input type="hidden" name="op" value="delete-step">
					<input type="hidden" name="step" value="{{ .ID }}">
					<button class="ui mini red basic button" title="Delete step"{{ if $.SingleStep }} disabled{{ end }}>&times;</button>
				</form>
			</li>
			{{ end }}
		</ol>
		<form method="post" action="{{ .Action }}">
			<input type="hidden" name="op" value="add-step">
			<button class="ui mini button">Add step</button>
		</form>
	</div>

	<div class="sf-panel">
		<form class="ui form" method="post" action="{{ .Action }}">
			<input type="hidden" name="op" value="rename-step">
			<input type="hidden" name="step" value="{{ .Canvas.ID }}">
			<div class="inline field">
				<label for="step-title">Step title</label>
				<input id="step-title" name="title" value="{{ .Canvas.Title }}">
			</div>
			<div class="inline field">
				<label for="step-description">Description</label>
				<input id="step-description" name="description" value="{{ .Canvas.Description }}">
			</div>
			<button class="ui mini button">Rename</button>
		</form>

		<div id="sf-canvas" class="sf-themed sf-canvas {{ .Classes }}">
			<div class="sf-form">
				{{ with .Theme.LogoURL }}<img class="sf-logo" src="{{ . }}" alt="">{{ end }}
				{{ template "progress" .Canvas }}
				<h2 class="sf-title">{{ .Canvas.Title }}</h2>
				{{ with .Canvas.Description }}<p class="sf-description">{{ . }}</p>{{ end }}
				{{ range .Items }}
				<div class="sf-canvas-item{{ if .Selected }} sf-selected{{ end }}" draggable="true" data-index="{{ .Index }}">
					{{ template "field" .Field }}
					<div class="sf-canvas-tools">
						<form method="post" action="{{ $.Action }}">
							<input type="hidden" name="op" value="select-field">
							<input type="hidden" name="field" value="{{ .Field.ID }}">
							<button class="ui mini basic button">Edit</button>
						</form>
						{{ if .CanUp }}
						<form method="post" action="{{ $.Action }}">
							<input type="hidden" name="op" value="move-field">
							<input type="hidden" name="step" value="{{ $.Canvas.ID }}">
							<input type="hidden" name="from" value="{{ .Index }}">
							<input type="hidden" name="at" value="{{ .Up }}">
							<button class="ui mini basic button" title="Move up">&uarr;</button>
						</form>
						{{ end }}
						{{ if .CanDown }}
						<form method="post" action="{{ $.Action }}">
							<input type="hidden" name="op" value="move-field">
							<input type="hidden" name="step" value="{{ $.Canvas.ID }}">
							<input type="hidden" name="from" value="{{ .Index }}">
							<input type="hidden" name="at" value="{{ .Down }}">
							<button class="ui mini basic button" title="Move down">&darr;</button>
						</form>
						{{ end }}
						<form method="post" action="{{ $.Action }}">
							<input type="hidden" name="op" value="delete-field">
							<input type="hidden" name="field" value="{{ .Field.ID }}">
							<button class="ui mini red basic button" title="Delete field">&times;</button>
						</form>
					</div>
				</div>
				{{ else }}
				<p class="sf-help">Drop fields here</p>
				{{ end }}
				<div class="sf-actions">
					<button type="button" class="sf-primary" disabled>{{ .Canvas.ActionLabel }}</button>
					{{ if not .Canvas.First }}<button type="button" class="sf-secondary" disabled>Back</button>{{ end }}
				</div>
			</div>
		</div>

		<form id="sf-dnd" method="post" action="{{ .Action }}">
			<input type="hidden" name="op" value="">
			<input type="hidden" name="type" value="">
			<input type="hidden" name="from" value="">
			<input type="hidden" name="at" value="">
			<input type="hidden" name="step" value="{{ .Canvas.ID }}">
		</form>

		<div class="sf-issues">
			{{ range .Issues }}
			<div class="sf-issue-{{ .Severity }}">{{ .Severity }}: {{ .Path }}: {{ .Message }}</div>
			{{ end }}
		</div>

		<form method="post" action="{{ .SaveAction }}">
			<button class="ui green button">Save</button>
		</form>
		<form method="post" action="{{ .Action }}">
			<input type="hidden" name="op" value="reload">
			<button class="ui basic button">Discard changes</button>
		</form>
	</div>

	<div class="sf-panel">
		<h4>Properties</h4>
		{{ if .HasSelection }}
		<form class="ui form" method="post" action="{{ .Action }}">
			<input type="hidden" name="op" value="set-field">
			<input type="hidden" name="field" value="{{ .Field.ID }}">
			<div class="field"><label>Type</label><span>{{ .Field.Type }}</span></div>
			<div class="field"><label for="prop-label">Label</label><input id="prop-label" name="label" value="{{ .Field.Label }}"></div>
			<div class="field"><label for="prop-name">Name</label><input id="prop-name" name="name" value="{{ .Field.Name }}"></div>
			<div class="field"><label for="prop-placeholder">Placeholder</label><input id="prop-placeholder" name="placeholder" value="{{ .Field.Placeholder }}"></div>
			<div class="field"><label for="prop-help">Help text</label><input id="prop-help" name="helpText" value="{{ .Field.HelpText }}"></div>
			<div class="field"><label><input type="checkbox" name="required" value="true"{{ if .Field.Required }} checked{{ end }}> Required</label></div>
			<div class="field"><label for="prop-min">Minimum length</label><input id="prop-min" name="minLength" type="number" min="0" value="{{ .MinLength }}"></div>
			<div class="field"><label for="prop-max">Maximum length</label><input id="prop-max" name="maxLength" type="number" min="0" value="{{ .MaxLength }}"></div>
			<div class="field"><label for="prop-pattern">Pattern</label><input id="prop-pattern" name="pattern" value="{{ .Field.Pattern }}"></div>
			<button class="ui mini button">Apply</button>
		</form>
		<form method="post" action="{{ .Action }}">
			<input type="hidden" name="op" value="clear-selection">
			<button class="ui mini basic button">Close</button>
		</form>
		{{ else }}
		<p>Select a field to edit its properties.</p>
		{{ end }}

		<h4>Theme</h4>
		<form class="ui form" method="post" action="{{ .Action }}">
			<input type="hidden" name="op" value="set-theme">
			<div class="field"><label for="theme-primary">Primary color</label><input id="theme-primary" name="primaryColor" value="{{ .Theme.PrimaryColor }}"></div>
			<div class="field"><label for="theme-background">Background color</label><input id="theme-background" name="backgroundColor" value="{{ .Theme.BackgroundColor }}"></div>
			<div class="field"><label for="theme-text">Text color</label><input id="theme-text" name="textColor" value="{{ .Theme.TextColor }}"></div>
			<div class="field"><label for="theme-heading">Heading color</label><input id="theme-heading" name="headingColor" value="{{ .Theme.HeadingColor }}"></div>
			<div class="field"><label for="theme-font">Font family</label><input id="theme-font" name="fontFamily" value="{{ .Theme.FontFamily }}"></div>
			<div class="field"><label for="theme-radius">Border radius</label><input id="theme-radius" name="borderRadius" value="{{ .Theme.BorderRadius }}"></div>
			<div class="field"><label for="theme-logo">Logo URL</label><input id="theme-logo" name="logoUrl" value="{{ .Theme.LogoURL }}"></div>
			<div class="field"><label><input type="checkbox" name="showLabels" value="true"{{ if .Theme.ShowLabels }} checked{{ end }}> Show labels</label></div>
			<div class="field">
				<label for="theme-spacing">Spacing</label>
				<select id="theme-spacing" name="spacing">
					{{ range .Spacings }}<option value="{{ . }}"{{ if eq . $.Theme.Spacing }} selected{{ end }}>{{ . }}</option>{{ end }}
				</select>
			</div>
			<div class="field">
				<label for="theme-input">Input style</label>
				<select id="theme-input" name="inputVariant">
					{{ range .InputVariants }}<option value="{{ . }}"{{ if eq . $.Theme.InputStyle.Variant }} selected{{ end }}>{{ . }}</option>{{ end }}
				</select>
			</div>
			<div class="field">
				<label for="theme-button">Button style</label>
				<select id="theme-button" name="buttonVariant">
					{{ range .ButtonVariants }}<option value="{{ . }}"{{ if eq . $.Theme.ButtonStyle.Variant }} selected{{ end }}>{{ . }}</option>{{ end }}
				</select>
			</div>
			<div class="field"><label><input type="checkbox" name="fullWidth" value="true"{{ if .Theme.ButtonStyle.FullWidth }} checked{{ end }}> Full width button</label></div>
			<button class="ui mini button">Apply theme</button>
		</form>
	</div>
</div>

<script>
	(function () {
		var dnd = document.getElementById("sf-dnd");
		var canvas = document.getElementById("sf-canvas");
		if (!dnd || !canvas) {
			return;
		}
		function submit(values) {
			Object.keys(values).forEach(function (k) {
				dnd.elements[k].value = values[k];
			});
			dnd.submit();
		}
		function dropIndex(event) {
			var items = canvas.querySelectorAll(".sf-canvas-item");
			for (var i = 0; i < items.length; i++) {
				var box = items[i].getBoundingClientRect();
				if (event.clientY < box.top + box.height / 2) {
					return i;
				}
			}
			return items.length;
		}
		document.querySelectorAll("[data-type]").forEach(function (el) {
			el.addEventListener("dragstart", function (event) {
				event.dataTransfer.setData("text/plain", "type:" + el.dataset.type);
			});
		});
		canvas.querySelectorAll(".sf-canvas-item").forEach(function (el) {
			el.addEventListener("dragstart", function (event) {
				event.dataTransfer.setData("text/plain", "field:" + el.dataset.index);
			});
		});
		canvas.addEventListener("dragover", function (event) {
			event.preventDefault();
		});
		canvas.addEventListener("drop", function (event) {
			event.preventDefault();
			var data = event.dataTransfer.getData("text/plain");
			var at = dropIndex(event);
			if (data.indexOf("type:") === 0) {
				submit({op: "add-field", type: data.slice(5), from: "", at: at});
			} else if (data.indexOf("field:") === 0) {
				var from = parseInt(data.slice(6), 10);
				// the dragged field is counted above its own drop position
				if (at > from) {
					at--;
				}
				submit({op: "move-field", type: "", from: from, at: at});
			}
		});
	})();
</script>
{{ end }}
`

// vim: ft=gohtmltmpl
