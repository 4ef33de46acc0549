// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Meshes  MeshesConfig  `yaml:"meshes"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds rendering settings.
type RenderConfig struct {
	Wireframe  bool       `yaml:"wireframe"`
	ClearColor [4]float32 `yaml:"clear_color"`
	Color      [3]float32 `yaml:"color"` // line colour for meshes without a material
	FOV        float32    `yaml:"fov"`   // vertical, degrees
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds the initial view and control speeds.
type CameraConfig struct {
	Eye              [3]float32 `yaml:"eye"`
	Focus            [3]float32 `yaml:"focus"`
	Up               [3]float32 `yaml:"up"`
	MoveSpeed        float32    `yaml:"move_speed"`        // units per second
	TurnSpeed        float32    `yaml:"turn_speed"`        // radians per second
	MouseSensitivity float32    `yaml:"mouse_sensitivity"` // radians per pixel
	FrameMeshes      bool       `yaml:"frame_meshes"`      // move the eye to fit loaded meshes
}

// MeshesConfig lists the files to load.
type MeshesConfig struct {
	Paths    []string      `yaml:"paths"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "meshgraph",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Render: RenderConfig{
			Wireframe:  true,
			ClearColor: [4]float32{0.1, 0.1, 0.12, 1},
			Color:      [3]float32{0.85, 0.85, 0.85},
			FOV:        60,
			Near:       0.1,
			Far:        1000,

			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Eye:              [3]float32{0, 0, 5},
			Focus:            [3]float32{0, 0, 0},
			Up:               [3]float32{0, 1, 0},
			MoveSpeed:        4,
			TurnSpeed:        1.5,
			MouseSensitivity: 0.005,
			FrameMeshes:      true,
		},
		Meshes: MeshesConfig{
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
