package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/typexsd/compiler/xsd"
	"github.com/syssam/typexsd/schema"
)

// config is the content of the configuration file. Command line flags
// override it.
type config struct {
	Model   string   `yaml:"model"`
	Out     string   `yaml:"out"`
	Types   []string `yaml:"types"`
	Workers int      `yaml:"workers"`

	ElementQualified           *bool `yaml:"elementQualified"`
	AttributeQualified         *bool `yaml:"attributeQualified"`
	ForceAnonymousComplexTypes bool  `yaml:"forceAnonymousComplexTypes"`
	Extension                  bool  `yaml:"extension"`
	HidePrivate                bool  `yaml:"hidePrivate"`
	SchemaLocation             *bool `yaml:"schemaLocation"`
	Indent                     *int  `yaml:"indent"`
}

// loadConfig reads the configuration file. A missing file is an error only
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (*config, error) {
	cfg := &config{Out: "."}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// bindFlags registers the flags that override the configuration file.
func bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("model", "m", "", "model file (.yaml, .yml or .json)")
	f.StringP("out", "o", "", "output directory")
	f.StringSliceP("type", "t", nil, "root types to generate (default: the model roots)")
	f.Int("workers", 0, "parallel workers (default: GOMAXPROCS)")
	f.Bool("element-qualified", false, "set elementFormDefault=qualified")
	f.Bool("attribute-qualified", false, "set attributeFormDefault=qualified")
	f.Bool("force-anonymous", false, "inline complex types of the referencing namespace")
	f.Bool("extension", false, "render super types with complexContent/extension")
	f.Bool("hide-private", false, "drop private members")
	f.Bool("schema-location", true, "add schemaLocation to imports")
	f.Int("indent", 2, "indentation width, 0 for compact output")
}

// applyFlags overrides cfg with the flags set on the command line.
func (c *config) applyFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	var errs []error
	str := func(name string, dst *string) {
		if f.Changed(name) {
			v, err := f.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	flag := func(name string, dst *bool) {
		if f.Changed(name) {
			v, err := f.GetBool(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	tristate := func(name string, dst **bool) {
		if f.Changed(name) {
			v, err := f.GetBool(name)
			errs = append(errs, err)
			*dst = &v
		}
	}
	str("model", &c.Model)
	str("out", &c.Out)
	if f.Changed("type") {
		v, err := f.GetStringSlice("type")
		errs = append(errs, err)
		c.Types = v
	}
	if f.Changed("workers") {
		v, err := f.GetInt("workers")
		errs = append(errs, err)
		c.Workers = v
	}
	if f.Changed("indent") {
		v, err := f.GetInt("indent")
		errs = append(errs, err)
		c.Indent = &v
	}
	tristate("element-qualified", &c.ElementQualified)
	tristate("attribute-qualified", &c.AttributeQualified)
	tristate("schema-location", &c.SchemaLocation)
	flag("force-anonymous", &c.ForceAnonymousComplexTypes)
	flag("extension", &c.Extension)
	flag("hide-private", &c.HidePrivate)
	return errors.Join(errs...)
}

func (c *config) validate() error {
	if c.Model == "" {
		return errors.New("no model file: pass --model or set model in the config file")
	}
	if c.Out == "" {
		return errors.New("no output directory")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	return nil
}

// options converts the configuration into marshaller options.
func (c *config) options(logger *slog.Logger) []xsd.Option {
	opts := []xsd.Option{
		xsd.WithLogger(logger),
		xsd.WithForceAnonymousComplexTypes(c.ForceAnonymousComplexTypes),
		xsd.WithExtension(c.Extension),
		xsd.WithHidePrivate(c.HidePrivate),
	}
	if c.ElementQualified != nil {
		opts = append(opts, xsd.WithElementQualified(schema.TristateOf(*c.ElementQualified)))
	}
	if c.AttributeQualified != nil {
		opts = append(opts, xsd.WithAttributeQualified(schema.TristateOf(*c.AttributeQualified)))
	}
	if c.SchemaLocation != nil {
		opts = append(opts, xsd.WithSchemaLocation(*c.SchemaLocation))
	}
	if c.Indent != nil {
		opts = append(opts, xsd.WithIndent(*c.Indent))
	}
	return opts
}
