package config

// Theme names accepted by ux.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UXConfig holds terminal presentation settings.
type UXConfig struct {
	// Theme selects the palette; auto inspects COLORFGBG.
	Theme string `yaml:"theme"`

	// CanvasWidth is the road view width in terminal cells. The height is
	// derived from the 400x600 canvas with cells twice as tall as wide.
	CanvasWidth int `yaml:"canvas_width"`
}
