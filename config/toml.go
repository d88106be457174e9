package config

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/cometbft/cometbft/libs/os"
)

// Field names and mapstructure keys in the template track the structs
// in config.go.
//
//go:embed config.toml.tpl
var govConfigTemplate string

var configTemplate = template.Must(
	template.New("configFile").Parse(govConfigTemplate))

// WriteConfigFile renders the node config, including the [app]
// section, to path.
func WriteConfigFile(path string, config *Config) {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, config); err != nil {
		panic(err)
	}
	os.MustWriteFile(path, buf.Bytes(), 0o644)
}
