package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
	Session         bool   `toml:"session"`
}

type Theme struct {
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	PromptForeground     string `toml:"prompt-foreground"`
	PromptBackground     string `toml:"prompt-background"`
	SearchForeground     string `toml:"search-foreground"`
	SearchBackground     string `toml:"search-background"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			GitBranchSymbol: "git:",
			Session:         true,
		},
		Theme: Theme{
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			PromptForeground:     "#B3B1AD",
			PromptBackground:     "#0F1419",
			SearchForeground:     "#000000",
			SearchBackground:     "#FFD700",
		},
	}
}

// Load reads config.toml from the config directory and merges it over
// the defaults. A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	md, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	// session defaults to on, so presence has to be checked explicitly.
	if md.IsDefined("editor", "session") {
		cfg.Editor.Session = userCfg.Editor.Session
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.PromptForeground != "" {
		dst.PromptForeground = src.PromptForeground
	}
	if src.PromptBackground != "" {
		dst.PromptBackground = src.PromptBackground
	}
	if src.SearchForeground != "" {
		dst.SearchForeground = src.SearchForeground
	}
	if src.SearchBackground != "" {
		dst.SearchBackground = src.SearchBackground
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("KED_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "ked"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ked"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
