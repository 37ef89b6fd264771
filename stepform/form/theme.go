package form

const (
	Compact Spacing = "compact"
	Normal  Spacing = "normal"
	Relaxed Spacing = "relaxed"

	Outlined   InputVariant = "outlined"
	Filled     InputVariant = "filled"
	Underlined InputVariant = "underlined"

	Solid   ButtonVariant = "solid"
	Outline ButtonVariant = "outline"
	Ghost   ButtonVariant = "ghost"
)

// Spacing is the density of the rendered form.
type Spacing string

// InputVariant selects the visual style of input elements.
type InputVariant string

// ButtonVariant selects the visual style of the navigation buttons.
type ButtonVariant string

// InputStyle groups the input presentation options.
type InputStyle struct {
	Variant InputVariant `json:"variant" validate:"oneof=outlined filled underlined"`
}

// ButtonStyle groups the button presentation options.
type ButtonStyle struct {
	Variant   ButtonVariant `json:"variant" validate:"oneof=solid outline ghost"`
	FullWidth bool          `json:"fullWidth"`
}

// Theme is the presentation of a form.  It is a value: the With methods
// return an updated copy and leave the receiver untouched.
type Theme struct {
	PrimaryColor    string      `json:"primaryColor"`
	BackgroundColor string      `json:"backgroundColor"`
	TextColor       string      `json:"textColor"`
	BorderRadius    string      `json:"borderRadius"`
	FontFamily      string      `json:"fontFamily,omitempty"`
	HeadingColor    string      `json:"headingColor,omitempty"`
	LogoURL         string      `json:"logoUrl,omitempty"`
	ShowLabels      bool        `json:"showLabels"`
	Spacing         Spacing     `json:"spacing" validate:"oneof=compact normal relaxed"`
	InputStyle      InputStyle  `json:"inputStyle"`
	ButtonStyle     ButtonStyle `json:"buttonStyle"`
}

// DefaultTheme returns the theme of a newly created form.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    "#3b82f6",
		BackgroundColor: "#ffffff",
		TextColor:       "#1f2937",
		BorderRadius:    "8px",
		ShowLabels:      true,
		Spacing:         Normal,
		InputStyle:      InputStyle{Variant: Outlined},
		ButtonStyle:     ButtonStyle{Variant: Solid, FullWidth: true},
	}
}

func (t Theme) WithPrimaryColor(c string) Theme {
	t.PrimaryColor = c
	return t
}

func (t Theme) WithBackgroundColor(c string) Theme {
	t.BackgroundColor = c
	return t
}

func (t Theme) WithTextColor(c string) Theme {
	t.TextColor = c
	return t
}

func (t Theme) WithHeadingColor(c string) Theme {
	t.HeadingColor = c
	return t
}

func (t Theme) WithFontFamily(f string) Theme {
	t.FontFamily = f
	return t
}

func (t Theme) WithBorderRadius(r string) Theme {
	t.BorderRadius = r
	return t
}

func (t Theme) WithLogoURL(u string) Theme {
	t.LogoURL = u
	return t
}

func (t Theme) WithShowLabels(show bool) Theme {
	t.ShowLabels = show
	return t
}

func (t Theme) WithSpacing(s Spacing) Theme {
	t.Spacing = s
	return t
}

func (t Theme) WithInputVariant(v InputVariant) Theme {
	t.InputStyle.Variant = v
	return t
}

func (t Theme) WithButtonVariant(v ButtonVariant) Theme {
	t.ButtonStyle.Variant = v
	return t
}

func (t Theme) WithFullWidthButton(full bool) Theme {
	t.ButtonStyle.FullWidth = full
	return t
}

// Gap returns the vertical gap between fields for the theme spacing.
func (t Theme) Gap() string {
	switch t.Spacing {
	case Compact:
		return "8px"
	case Relaxed:
		return "24px"
	}
	return "16px"
}
