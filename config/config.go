package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// New returns a viper instance with the matterroom defaults and
// MATTERROOM_ environment overrides, without reading a file.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("room.historylimit", 20)
	v.SetDefault("matrix.dedupcache", 1024)
	v.SetDefault("matrix.store", "matterroom.db")
	v.SetDefault("matrix.syncretry", 10*time.Second)

	v.SetEnvPrefix("matterroom")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	// use environment variables
	v.AutomaticEnv()

	return v
}

func LoadConfig(cfgfile string) (*viper.Viper, error) {
	v := New()
	if cfgfile == "" {
		return v, nil
	}

	v.SetConfigFile(cfgfile)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s", err)
	}

	// reload config on file changes
	if runtime.GOOS != "illumos" {
		v.WatchConfig()
	}

	return v, nil
}
