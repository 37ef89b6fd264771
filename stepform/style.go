package stepform

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/G-Node/stepform/stepform/form"
)

var (
	colorPattern  = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|(rgb|rgba|hsl|hsla)\([0-9.,%\s]+\)|[a-zA-Z]+)$`)
	lengthPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(px|rem|em|%)?$`)
	fontPattern   = regexp.MustCompile(`^[\w\s,'"-]+$`)
)

const defaultFont = "system-ui, -apple-system, sans-serif"

// themeStyle holds the theme values that are written into style sheets.
// Values that are not plain colors, lengths or font lists are replaced with
// the defaults before they are marked safe.
type themeStyle struct {
	Primary    template.CSS
	Background template.CSS
	Text       template.CSS
	Heading    template.CSS
	Radius     template.CSS
	Gap        template.CSS
	Font       template.CSS
}

func cssValue(value, fallback string, pattern *regexp.Regexp) template.CSS {
	value = strings.TrimSpace(value)
	if !pattern.MatchString(value) {
		value = fallback
	}
	return template.CSS(value)
}

func newThemeStyle(t form.Theme) themeStyle {
	def := form.DefaultTheme()
	style := themeStyle{
		Primary:    cssValue(t.PrimaryColor, def.PrimaryColor, colorPattern),
		Background: cssValue(t.BackgroundColor, def.BackgroundColor, colorPattern),
		Text:       cssValue(t.TextColor, def.TextColor, colorPattern),
		Radius:     cssValue(t.BorderRadius, def.BorderRadius, lengthPattern),
		Gap:        template.CSS(t.Gap()),
		Font:       cssValue(t.FontFamily, defaultFont, fontPattern),
	}
	style.Heading = cssValue(t.HeadingColor, string(style.Text), colorPattern)
	return style
}

// themeClasses returns the classes selecting the input and button variants
// of a theme.
func themeClasses(t form.Theme) string {
	def := form.DefaultTheme()
	input := t.InputStyle.Variant
	switch input {
	case form.Outlined, form.Filled, form.Underlined:
	default:
		input = def.InputStyle.Variant
	}
	button := t.ButtonStyle.Variant
	switch button {
	case form.Solid, form.Outline, form.Ghost:
	default:
		button = def.ButtonStyle.Variant
	}
	classes := []string{"sf-input-" + string(input), "sf-btn-" + string(button)}
	if t.ButtonStyle.FullWidth {
		classes = append(classes, "sf-full")
	}
	return strings.Join(classes, " ")
}
