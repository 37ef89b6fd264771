package templates

// LogView template for displaying the submission log in a list.
const LogView = `
{{define "content"}}
	<div class="repository file list">
		<div class="ui container">
			<p id="repo-desc">
			<span class="description">Submissions{{with .Tenant}} of {{.}}{{end}}</span>
			</p>
			<table id="submissions-table" class="ui unstackable fixed single line table">
				<tbody>
					{{range $sub := .Submissions}}
						<tr>
							<td class="name two wide">S{{$sub.ID}}</td>
							<td class="name four wide">{{$sub.Tenant}}/{{$sub.FormType}}</td>
							<td class="name text bold four wide"><a href="/log/{{$sub.ID}}">{{if $sub.Label}}{{$sub.Label}}{{else}}Submission {{$sub.ID}}{{end}}</a></td>
							<td class="name four wide">{{$sub.SubmitTime.Format "15:04:05 Mon Jan 2 2006"}}</td>
							<td class="name four wide">{{if $sub.IsFinished}}{{$sub.EndTime.Format "15:04:05 Mon Jan 2 2006"}}{{else}}In queue{{end}}</td>
							<td class="name four wide">{{if $sub.Error}}{{$sub.Error}}{{end}}</td>
						</tr>
					{{else}}
						<tr><td>No submissions</td></tr>
					{{end}}
				</tbody>
			</table>
		</div>
	</div>
{{end}}
`

// SubmissionView template for displaying a single submission read-only.
const SubmissionView = `
{{define "content"}}
	<div class="ui container">
		<h3 class="ui top attached header">S{{.ID}}: {{.Tenant}}/{{.FormType}}</h3>
		<div class="ui attached segment">
			<table class="ui definition table">
				<tbody>
					{{range $name, $value := .ValueMap}}
						<tr><td class="four wide">{{$name}}</td><td>{{$value}}</td></tr>
					{{end}}
				</tbody>
			</table>
			<div>Submitted {{.SubmitTime.Format "15:04:05 Mon Jan 2 2006"}}</div>
			<div>
				{{if .IsFinished}}
					Finished {{.EndTime.Format "15:04:05 Mon Jan 2 2006"}}
				{{else}}
					In queue
				{{end}}
			</div>
			{{range .Messages}}
				<div class="message">{{.}}</div>
			{{end}}
			{{if .Error}}
				<div style="color: red; font-weight: bold">{{.Error}}</div>
			{{end}}
		</div>
	</div>
{{end}}
`
