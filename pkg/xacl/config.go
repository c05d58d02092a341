package xacl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义策略文件格式。
type Format string

// 支持的策略文件格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Load 从文件加载策略并编译为 ACL。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
// 策略默认位于键路径 "acl" 下，[WithKeyPath] 可调整。
func Load(path string, opts ...Option) (*ACL, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return Parse(data, format, opts...)
}

// Parse 从字节数据解析策略并编译为 ACL。
// 需要显式指定格式，适用于 K8s ConfigMap 等场景。
func Parse(data []byte, format Format, opts ...Option) (*ACL, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}

	var p Policy
	if err := k.UnmarshalWithConf(o.keyPath, &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return New(p, opts...)
}

// detectFormat 根据文件扩展名检测策略格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// loadData 加载数据到 koanf 实例。
func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
