package xsd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typexsd/schema"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, schema.Unset, cfg.ElementQualified)
		assert.Equal(t, schema.Unset, cfg.AttributeQualified)
		assert.True(t, cfg.IncludeSchemaLocation)
		assert.False(t, cfg.ForceAnonymousComplexTypes)
		assert.False(t, cfg.UseExtension)
		assert.False(t, cfg.HidePrivate)
		assert.Nil(t, cfg.Attachments)
		assert.NotNil(t, cfg.Converter)
		assert.NotNil(t, cfg.Logger)
		assert.Equal(t, 2, cfg.Indent)
	})

	t.Run("options", func(t *testing.T) {
		logger := slog.New(slog.DiscardHandler)
		provider := NewMemoryProvider()
		cfg, err := NewConfig(
			WithElementQualified(schema.True),
			WithAttributeQualified(schema.False),
			WithForceAnonymousComplexTypes(true),
			WithExtension(true),
			WithHidePrivate(true),
			WithSchemaLocation(false),
			WithRootLocation("root.xsd"),
			WithAttachmentProvider(provider),
			WithLogger(logger),
			WithIndent(4),
		)
		require.NoError(t, err)
		assert.Equal(t, schema.True, cfg.ElementQualified)
		assert.Equal(t, schema.False, cfg.AttributeQualified)
		assert.True(t, cfg.ForceAnonymousComplexTypes)
		assert.True(t, cfg.UseExtension)
		assert.True(t, cfg.HidePrivate)
		assert.False(t, cfg.IncludeSchemaLocation)
		assert.Equal(t, "root.xsd", cfg.RootLocation)
		assert.Same(t, provider, cfg.Attachments)
		assert.Same(t, logger, cfg.Logger)
		assert.Equal(t, 4, cfg.Indent)
	})

	t.Run("errors are collected", func(t *testing.T) {
		_, err := NewConfig(
			WithAttachmentProvider(nil),
			WithConverter(nil),
			WithLogger(nil),
			WithIndent(-2),
			WithElementQualified(schema.Tristate(7)),
		)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		for _, opt := range []string{"Attachments", "Converter", "Logger", "Indent", "ElementQualified"} {
			assert.Contains(t, err.Error(), opt)
		}
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithIndent(-1)) })
		assert.NotPanics(t, func() { MustNewConfig() })
	})
}

func TestCastConverter(t *testing.T) {
	conv := CastConverter{}
	ts := time.Date(2024, 5, 6, 7, 8, 9, 500, time.UTC)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"negative", -3, "-3"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"time", ts, "2024-05-06T07:08:09.0000005Z"},
		{"time pointer", &ts, "2024-05-06T07:08:09.0000005Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.Convert(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := conv.Convert(struct{ A int }{1})
		assert.Error(t, err)
	})

	t.Run("func adapter", func(t *testing.T) {
		f := ConverterFunc(func(v any) (string, error) { return "x", nil })
		got, err := f.Convert(1)
		require.NoError(t, err)
		assert.Equal(t, "x", got)
	})
}
