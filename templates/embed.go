package templates

// Embed is the script defining the <hellojohn-form> element.  The element
// renders the form of its tenant in a frame inside its shadow root and
// re-dispatches submissions as a "form-submit" event.  Changing the tenant
// or form-type attribute replaces the frame; messages from a replaced frame
// are ignored.
const Embed = `(function () {
	"use strict";
	var script = document.currentScript;
	var base = script ? new URL(script.src, window.location.href).origin : window.location.origin;

	class HelloJohnForm extends HTMLElement {
		static get observedAttributes() {
			return ["tenant", "form-type"];
		}

		constructor() {
			super();
			this.attachShadow({mode: "open"});
			this._frame = null;
			this._onMessage = this._onMessage.bind(this);
		}

		connectedCallback() {
			window.addEventListener("message", this._onMessage);
			this._render();
		}

		disconnectedCallback() {
			window.removeEventListener("message", this._onMessage);
			this._frame = null;
			this.shadowRoot.innerHTML = "";
		}

		attributeChangedCallback(name, oldValue, newValue) {
			if (oldValue !== newValue && this.isConnected) {
				this._render();
			}
		}

		_render() {
			var tenant = this.getAttribute("tenant");
			var formType = this.getAttribute("form-type") || "login";
			this.shadowRoot.innerHTML = "";
			this._frame = null;
			var style = document.createElement("style");
			style.textContent = ":host { display: block; } iframe { border: 0; width: 100%; min-height: 320px; }";
			this.shadowRoot.appendChild(style);
			if (!tenant) {
				return;
			}
			var frame = document.createElement("iframe");
			frame.title = formType + " form";
			frame.src = base + "/forms/" + encodeURIComponent(tenant) + "/" + encodeURIComponent(formType) +
				"?origin=" + encodeURIComponent(window.location.origin);
			this.shadowRoot.appendChild(frame);
			this._frame = frame;
		}

		_onMessage(event) {
			if (!this._frame || event.source !== this._frame.contentWindow || event.origin !== base) {
				return;
			}
			var data = event.data || {};
			if (data.type === "stepform:resize") {
				this._frame.style.height = data.height + "px";
			} else if (data.type === "stepform:submit") {
				this.dispatchEvent(new CustomEvent("form-submit", {detail: data.values, bubbles: true, composed: true}));
			}
		}
	}

	if (!window.customElements.get("hellojohn-form")) {
		window.customElements.define("hellojohn-form", HelloJohnForm);
	}
})();
`
