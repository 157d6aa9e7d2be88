package main

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typexsd/compiler/xsd"
	"github.com/syssam/typexsd/schema"
)

const companyModel = "../../compiler/load/testdata/company.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func quiet() *slog.Logger { return slog.New(slog.DiscardHandler) }

func readSchema(t *testing.T, path string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(path))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestGenerateCommand(t *testing.T) {
	out := t.TempDir()
	stdout, err := execute(t, "generate", "--model", companyModel, "--out", out, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 1 schemas, 2 files")

	root := readSchema(t, filepath.Join(out, "company.xsd"))
	assert.Equal(t, "urn:example:company", root.SelectAttrValue("targetNamespace", ""))
	assert.Equal(t, "qualified", root.SelectAttrValue("elementFormDefault", ""))
	imp := root.SelectElement("import")
	require.NotNil(t, imp)
	assert.Equal(t, "urn:example:hr", imp.SelectAttrValue("namespace", ""))
	assert.Equal(t, "company.urn_example_hr.xsd", imp.SelectAttrValue("schemaLocation", ""))

	hr := readSchema(t, filepath.Join(out, "company.urn_example_hr.xsd"))
	assert.Equal(t, "urn:example:hr", hr.SelectAttrValue("targetNamespace", ""))
	assert.NotNil(t, hr.FindElement("complexType[@name='EmployeeType']"))
}

func TestGenerateCommandFlags(t *testing.T) {
	t.Run("explicit types", func(t *testing.T) {
		out := t.TempDir()
		_, err := execute(t, "generate", "-m", companyModel, "-o", out,
			"-t", "Company", "-t", "{urn:example:hr}Employee", "--log-level", "error")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "company.xsd"))
		assert.FileExists(t, filepath.Join(out, "employee.xsd"))
	})

	t.Run("no schema location", func(t *testing.T) {
		out := t.TempDir()
		_, err := execute(t, "generate", "-m", companyModel, "-o", out,
			"--schema-location=false", "--log-level", "error")
		require.NoError(t, err)
		imp := readSchema(t, filepath.Join(out, "company.xsd")).SelectElement("import")
		require.NotNil(t, imp)
		assert.Nil(t, imp.SelectAttr("schemaLocation"))
	})

	t.Run("compact output", func(t *testing.T) {
		out := t.TempDir()
		_, err := execute(t, "generate", "-m", companyModel, "-o", out, "--indent", "0", "--log-level", "error")
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(out, "company.xsd"))
		require.NoError(t, err)
		assert.NotContains(t, strings.TrimSpace(string(b)), "\n  <")
	})
}

func TestGenerateCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no model", []string{"generate", "--out", "x"}, "no model file"},
		{"missing model", []string{"generate", "--model", "missing.yaml"}, "read model"},
		{"unknown type", []string{"generate", "--model", companyModel, "--type", "Nope"}, "unknown type"},
		{"simple root", []string{"generate", "--model", companyModel, "--type", "Status"}, "not a complex type"},
		{"negative workers", []string{"generate", "--model", companyModel, "--workers", "-1"}, "workers"},
		{"negative indent", []string{"generate", "--model", companyModel, "--indent", "-1"}, "indent"},
		{"missing config", []string{"generate", "--config", "missing.yaml", "--model", companyModel}, "read config"},
		{"bad log level", []string{"generate", "--log-level", "loud"}, "invalid log level"},
		{"bad log format", []string{"generate", "--log-format", "xml"}, "invalid log format"},
		{"arguments", []string{"generate", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--out", t.TempDir())
			if tt.name == "arguments" {
				args = tt.args
			}
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "typexsd dev")
	assert.Contains(t, out, "commit:")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing implicit file", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(dir, "none.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Out)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(dir, "none.yaml"), true)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("values", func(t *testing.T) {
		path := filepath.Join(dir, "typexsd.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`model: company.yaml
out: build/xsd
types: [Company]
workers: 2
elementQualified: false
extension: true
indent: 0
`), 0o644))
		cfg, err := loadConfig(path, true)
		require.NoError(t, err)
		assert.Equal(t, "company.yaml", cfg.Model)
		assert.Equal(t, "build/xsd", cfg.Out)
		assert.Equal(t, []string{"Company"}, cfg.Types)
		assert.Equal(t, 2, cfg.Workers)
		require.NotNil(t, cfg.ElementQualified)
		assert.False(t, *cfg.ElementQualified)
		assert.Nil(t, cfg.AttributeQualified)
		assert.True(t, cfg.Extension)
		require.NotNil(t, cfg.Indent)
		assert.Equal(t, 0, *cfg.Indent)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		cfg, err := loadConfig(path, true)
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Out)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.yaml")
		require.NoError(t, os.WriteFile(path, []byte("modle: x.yaml\n"), 0o644))
		_, err := loadConfig(path, true)
		assert.Error(t, err)
	})
}

func TestResolveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typexsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`model: from-file.yaml
out: file-out
extension: true
hidePrivate: true
`), 0o644))

	g := &globalOptions{configFile: path, logger: quiet()}
	cmd := newGenerateCmd(g)
	require.NoError(t, cmd.ParseFlags([]string{"--out", "flag-out", "--extension=false", "--element-qualified"}))

	cfg, err := resolveConfig(cmd, g)
	require.NoError(t, err)
	assert.Equal(t, "from-file.yaml", cfg.Model)
	assert.Equal(t, "flag-out", cfg.Out)
	assert.False(t, cfg.Extension)
	assert.True(t, cfg.HidePrivate)
	require.NotNil(t, cfg.ElementQualified)
	assert.True(t, *cfg.ElementQualified)
	assert.Nil(t, cfg.SchemaLocation)
}

func TestConfigOptions(t *testing.T) {
	yes, no, indent := true, false, 4
	cfg := &config{
		ElementQualified:           &yes,
		AttributeQualified:         &no,
		ForceAnonymousComplexTypes: true,
		Extension:                  true,
		HidePrivate:                true,
		SchemaLocation:             &no,
		Indent:                     &indent,
	}
	c, err := xsd.NewConfig(cfg.options(quiet())...)
	require.NoError(t, err)
	assert.Equal(t, schema.True, c.ElementQualified)
	assert.Equal(t, schema.False, c.AttributeQualified)
	assert.True(t, c.ForceAnonymousComplexTypes)
	assert.True(t, c.UseExtension)
	assert.True(t, c.HidePrivate)
	assert.False(t, c.IncludeSchemaLocation)
	assert.Equal(t, 4, c.Indent)

	c, err = xsd.NewConfig((&config{}).options(quiet())...)
	require.NoError(t, err)
	assert.Equal(t, schema.Unset, c.ElementQualified)
	assert.True(t, c.IncludeSchemaLocation)
	assert.Equal(t, 2, c.Indent)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.yaml")
	out := filepath.Join(dir, "xsd")
	require.NoError(t, os.WriteFile(model, []byte(`namespace: urn:example:watch
roots: [Order]
types:
  - name: Order
    fields:
      - {name: id, type: xs:string}
`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, &config{Model: model, Out: out}, quiet())
	}()

	target := filepath.Join(out, "order.xsd")
	contains := func(s string) func() bool {
		return func() bool {
			b, err := os.ReadFile(target)
			return err == nil && strings.Contains(string(b), s)
		}
	}
	require.Eventually(t, contains(`name="id"`), 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(model, []byte(`namespace: urn:example:watch
roots: [Order]
types:
  - name: Order
    fields:
      - {name: id, type: xs:string}
      - {name: total, type: xs:decimal}
`), 0o644))
	require.Eventually(t, contains(`name="total"`), 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
