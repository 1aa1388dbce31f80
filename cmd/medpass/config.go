package main

import (
	"path/filepath"

	"github.com/medpass/medpass/internal/config"
	"github.com/spf13/viper"
)

func loadConfig() (config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		path = filepath.Join(".medpass", "config.json")
	}
	return config.Load(path)
}
