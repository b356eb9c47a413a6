package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/ByLCY/richtext/dsl"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
	"github.com/ByLCY/richtext/style"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	LayoutConfig struct {
		Width  float64 `yaml:"width"`
		Align  string  `yaml:"align"`
		Syntax string  `yaml:"syntax"`
	}

	StylesConfig struct {
		Files  []string                     `yaml:"files"`
		Global map[string]map[string]string `yaml:"global"`
	}

	FontsConfig struct {
		BaseDir  string            `yaml:"base_dir"`
		Faces    map[string]string `yaml:"faces"`
		Fallback string            `yaml:"fallback"`
	}

	Config struct {
		Version int           `yaml:"version"`
		Layout  LayoutConfig  `yaml:"layout"`
		Styles  StylesConfig  `yaml:"styles"`
		Fonts   FontsConfig   `yaml:"fonts"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: 解析配置数据失败: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the embedded defaults and validates the
// result. An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("config: 处理默认配置失败: %w", err)
	}
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: 读取配置文件失败: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("config: 处理配置文件失败: %w", err)
		}
		cfg.resolvePaths(filepath.Dir(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePaths 将配置文件中的相对路径解释为相对于配置文件所在目录。
func (c *Config) resolvePaths(dir string) {
	for i, f := range c.Styles.Files {
		if !filepath.IsAbs(f) {
			c.Styles.Files[i] = filepath.Join(dir, f)
		}
	}
	if c.Fonts.BaseDir != "" && !filepath.IsAbs(c.Fonts.BaseDir) {
		c.Fonts.BaseDir = filepath.Join(dir, c.Fonts.BaseDir)
	}
}

// Validate checks all sections and reports every problem found.
func (c *Config) Validate() error {
	var err error
	if c.Version != 1 {
		err = multierr.Append(err, fmt.Errorf("config: 不支持的配置版本 %d", c.Version))
	}
	if c.Layout.Width < 0 {
		err = multierr.Append(err, fmt.Errorf("config: layout.width 不能为负数: %g", c.Layout.Width))
	}
	if _, e := layout.ParseAlignment(c.Layout.Align); e != nil {
		err = multierr.Append(err, e)
	}
	if _, e := markup.ParseSyntax(c.Layout.Syntax); e != nil {
		err = multierr.Append(err, e)
	}
	err = multierr.Append(err, c.Logging.ConsoleLogger.validate("console"))
	err = multierr.Append(err, c.Logging.FileLogger.validate("file"))
	if c.Logging.FileLogger.Level != "none" && c.Logging.FileLogger.Level != "" && c.Logging.FileLogger.Destination == "" {
		err = multierr.Append(err, errors.New("config: 启用文件日志时必须设置 logging.file.destination"))
	}
	return err
}

// Alignment returns the validated layout alignment.
func (c *Config) Alignment() layout.Alignment {
	a, _ := layout.ParseAlignment(c.Layout.Align)
	return a
}

// Syntax returns the validated markup syntax.
func (c *Config) Syntax() markup.Syntax {
	s, _ := markup.ParseSyntax(c.Layout.Syntax)
	return s
}

// GlobalStyles 依次加载样式表文件，再合并内联的全局样式，属性名统一规范化。
func (c *Config) GlobalStyles() (style.Sheet, error) {
	layers := make([]style.Sheet, 0, len(c.Styles.Files)+1)
	for _, path := range c.Styles.Files {
		sheet, err := loadSheet(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, sheet)
	}
	inline := style.Sheet{}
	for name, props := range c.Styles.Global {
		inline[name] = style.CanonicalProps(props)
	}
	layers = append(layers, inline)
	return style.MergeSheets(layers...), nil
}

func loadSheet(path string) (sheet style.Sheet, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: 无法打开样式表: %w", err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	if sheet, err = dsl.LoadStyles(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}

// Dump returns the configuration as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("config: 序列化 YAML 失败: %w", err)
	}
	return data, nil
}

// Default returns the embedded default configuration as YAML.
func Default() []byte { return bytes.Clone(defaultConfig) }
