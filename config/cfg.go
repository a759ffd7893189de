package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"pager/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ViewportConfig struct {
		Width  int `yaml:"width" validate:"min=16"`
		Height int `yaml:"height" validate:"min=16"`
	}

	// FontConfig describes faces used for measuring and previewing pages.
	// Empty paths select the built-in bitmap face.
	FontConfig struct {
		ID         int     `yaml:"id" validate:"gte=0"`
		Size       float64 `yaml:"size" validate:"gt=0"`
		DPI        float64 `yaml:"dpi" validate:"gt=0"`
		Regular    string  `yaml:"regular" sanitize:"assure_file_access"`
		Bold       string  `yaml:"bold" sanitize:"assure_file_access"`
		Italic     string  `yaml:"italic" sanitize:"assure_file_access"`
		BoldItalic string  `yaml:"bold_italic" sanitize:"assure_file_access"`
	}

	LayoutConfig struct {
		Viewport              ViewportConfig   `yaml:"viewport"`
		Font                  FontConfig       `yaml:"font"`
		LineCompression       float64          `yaml:"line_compression" validate:"gt=0,lte=3"`
		ExtraParagraphSpacing bool             `yaml:"extra_paragraph_spacing"`
		ParagraphAlignment    common.Alignment `yaml:"paragraph_alignment" validate:"gte=0"`
		FirstLineIndent       int              `yaml:"first_line_indent" validate:"gte=0"`
		Hyphenation           bool             `yaml:"hyphenation"`
		MaxLinesPerPage       int              `yaml:"max_lines_per_page" validate:"min=1"`
	}

	ParserConfig struct {
		Markup            common.MarkupMode  `yaml:"markup" validate:"gte=0"`
		Noterefs          common.NoterefMode `yaml:"noterefs" validate:"gte=0"`
		ChunkSize         int                `yaml:"chunk_size" validate:"min=64"`
		MaxWordBytes      int                `yaml:"max_word_bytes" validate:"min=16"`
		MaxBlockWords     int                `yaml:"max_block_words" validate:"min=16"`
		MaxTokenBytes     int                `yaml:"max_token_bytes" validate:"min=4096"`
		ProgressThreshold int64              `yaml:"progress_threshold" validate:"gte=0"`
	}

	HyphenationConfig struct {
		Language     string `yaml:"language" validate:"required,bcp47_language_tag"`
		Dictionaries string `yaml:"dictionaries" sanitize:"path_clean"`
	}

	CacheConfig struct {
		Enable bool   `yaml:"enable"`
		Path   string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required_if=Enable true,omitempty,filepath"`
	}

	// OutputConfig.PageTemplate is a path to text/template file used to dump
	// pages, built-in template is used when empty.
	OutputConfig struct {
		PageTemplate  string `yaml:"page_template" sanitize:"assure_file_access"`
		PreviewMargin int    `yaml:"preview_margin" validate:"gte=0"`
	}

	Config struct {
		Version     int               `yaml:"version" validate:"eq=1"`
		Layout      LayoutConfig      `yaml:"layout"`
		Parser      ParserConfig      `yaml:"parser"`
		Hyphenation HyphenationConfig `yaml:"hyphenation"`
		Cache       CacheConfig       `yaml:"cache"`
		Output      OutputConfig      `yaml:"output"`
		Logging     LoggingConfig     `yaml:"logging"`
		Reporting   ReporterConfig    `yaml:"reporting"`
	}
)

var requiredOptions []func(*gencfg.ProcessingOptions)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
