package templates

const Login = `
{{ define "content" }}
			<div class="user signin">
				<div class="ui middle very relaxed page grid">
					<div class="column">
						<form class="ui form" action="/login" method="post">
							<h3 class="ui top attached header">
								Sign in to the form builder
							</h3>
							<div class="ui attached segment">
								<div class="required inline field ">
									<label for="username">Name</label>
									<input id="username" name="username" value="" autofocus required>
								</div>
								<div class="required inline field ">
									<label for="token">Admin token</label>
									<input id="token" name="token" type="password" autocomplete="off" value="" required>
								</div>
								<div class="inline field">
									<label></label>
									<button class="ui green button">Sign In</button>
								</div>
							</div>
						</form>
					</div>
				</div>
			</div>
{{ end }}
`


// vim: ft=gohtmltmpl
