package nexus

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigError represents domain-specific configuration errors
type ConfigError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func (e ConfigError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field: %s)", e.Field)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeInvalidType   = "CONFIG_INVALID_TYPE"
	ErrCodeFileNotFound  = "CONFIG_FILE_NOT_FOUND"
	ErrCodeValidation    = "CONFIG_VALIDATION_FAILED"
	ErrCodeEnvironment   = "CONFIG_ENV_READ_FAILED"
	ErrCodeMerge         = "CONFIG_MERGE_FAILED"
	ErrCodeSecurityCheck = "CONFIG_SECURITY_CHECK_FAILED"
)

// Validator handles configuration validation
type Validator interface {
	Validate(ctx context.Context, cfg interface{}) error
}

// SecurityChecker performs security validation on configuration
type SecurityChecker interface {
	CheckSecurity(ctx context.Context, cfg interface{}) error
}

// LoaderOptions contains configuration for the loader
type LoaderOptions struct {
	DefaultFileName string
	FileFlag        string
	FileName        string
	OnlyEnvironment bool
	Validator       Validator
	SecurityChecker SecurityChecker
}

// Loader reads configuration from an optional file plus the environment and
// overlays the result on whatever defaults the target already holds.
type Loader struct {
	options LoaderOptions
}

// LoaderOption is a functional option for configuring the loader
type LoaderOption func(*LoaderOptions)

// WithFileFlag sets the command line flag for configuration file
func WithFileFlag(flag string) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileFlag = flag
		o.FileName = ""
	}
}

// WithFileName sets a specific configuration file name
func WithFileName(fileName string) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileName = fileName
		o.FileFlag = ""
	}
}

// WithOnlyEnvironment configures loader to only read from environment
func WithOnlyEnvironment() LoaderOption {
	return func(o *LoaderOptions) {
		o.OnlyEnvironment = true
		o.FileFlag = ""
		o.FileName = ""
	}
}

// WithValidator sets a custom validator
func WithValidator(v Validator) LoaderOption {
	return func(o *LoaderOptions) {
		o.Validator = v
	}
}

// WithSecurityChecker sets a custom security checker
func WithSecurityChecker(sc SecurityChecker) LoaderOption {
	return func(o *LoaderOptions) {
		o.SecurityChecker = sc
	}
}

// NewLoader creates a new configuration loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	options := LoaderOptions{
		DefaultFileName: ".env",
		FileFlag:        "config",
		Validator:       &DefaultValidator{},
		SecurityChecker: &DefaultSecurityChecker{},
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Loader{options: options}
}

// Load loads configuration into cfg, a pointer to struct
func (l *Loader) Load(cfg interface{}) error {
	return l.LoadWithContext(context.Background(), cfg)
}

// LoadWithContext loads configuration with context support
func (l *Loader) LoadWithContext(ctx context.Context, cfg interface{}) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return &ConfigError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("configuration must be a pointer to struct, got %T", cfg),
		}
	}

	loaded := reflect.New(rv.Elem().Type()).Interface()
	if err := l.read(loaded); err != nil {
		return err
	}

	// values read from file/env win over the defaults already in cfg
	if err := mergo.Merge(cfg, loaded, mergo.WithOverride); err != nil {
		return &ConfigError{Code: ErrCodeMerge, Message: "failed to merge configuration sources", Cause: err}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.options.SecurityChecker.CheckSecurity(ctx, cfg); err != nil {
		return &ConfigError{Code: ErrCodeSecurityCheck, Message: "security validation failed", Cause: err}
	}

	if err := l.options.Validator.Validate(ctx, cfg); err != nil {
		return &ConfigError{Code: ErrCodeValidation, Message: "configuration validation failed", Cause: err}
	}

	return nil
}

func (l *Loader) read(target interface{}) error {
	fileName := ""
	if !l.options.OnlyEnvironment {
		fileName = l.resolveFileName()
	}

	if fileName == "" {
		if err := cleanenv.ReadEnv(target); err != nil {
			return &ConfigError{Code: ErrCodeEnvironment, Message: "failed to read environment variables", Cause: err}
		}
		return nil
	}

	// ReadConfig applies the environment on top of the file
	if err := cleanenv.ReadConfig(fileName, target); err != nil {
		return &ConfigError{
			Code:    ErrCodeFileNotFound,
			Message: fmt.Sprintf("failed to read configuration file: %s", fileName),
			Cause:   err,
		}
	}
	return nil
}

func (l *Loader) resolveFileName() string {
	if l.options.FileName != "" {
		return l.options.FileName
	}

	if l.options.FileFlag == "" {
		return ""
	}

	if fileName := l.getFileNameFromFlag(); fileName != "" {
		return fileName
	}

	return l.getDefaultFileIfExists()
}

// getFileNameFromFlag reads the flag without forcing flag.Parse on the caller
func (l *Loader) getFileNameFromFlag() string {
	f := flag.Lookup(l.options.FileFlag)
	if f != nil {
		return f.Value.String()
	}

	prefix := l.options.FileFlag + "="
	for _, arg := range os.Args[1:] {
		if v, ok := strings.CutPrefix(strings.TrimLeft(arg, "-"), prefix); ok {
			return v
		}
	}
	return ""
}

func (l *Loader) getDefaultFileIfExists() string {
	if l.options.DefaultFileName == "" {
		return ""
	}

	if _, err := os.Stat(l.options.DefaultFileName); err == nil {
		return l.options.DefaultFileName
	}

	return ""
}

// DefaultValidator implements basic validation using go-playground/validator
type DefaultValidator struct {
	validator *validator.Validate
}

func (v *DefaultValidator) Validate(_ context.Context, cfg interface{}) error {
	if v.validator == nil {
		v.validator = validator.New()
	}
	return v.validator.Struct(cfg)
}

// ErrPlaceholderSecret is returned when a secret still holds a sample value
var ErrPlaceholderSecret = errors.New("secret holds a placeholder value")

// DefaultSecurityChecker rejects well-known placeholder values in secret
// fields, walking nested config structs.
type DefaultSecurityChecker struct{}

func (sc *DefaultSecurityChecker) CheckSecurity(_ context.Context, cfg interface{}) error {
	return sc.walk(reflect.ValueOf(cfg).Elem(), "")
}

func (sc *DefaultSecurityChecker) walk(val reflect.Value, path string) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		name := fieldType.Name
		if path != "" {
			name = path + "." + name
		}

		switch {
		case field.Kind() == reflect.Struct:
			if err := sc.walk(field, name); err != nil {
				return err
			}
		case field.Kind() == reflect.String && sc.isSensitiveField(fieldType.Name):
			if sc.isPlaceholder(field.String()) {
				return &ConfigError{Code: ErrCodeSecurityCheck, Message: "placeholder secret", Field: name, Cause: ErrPlaceholderSecret}
			}
		}
	}
	return nil
}

func (sc *DefaultSecurityChecker) isSensitiveField(fieldName string) bool {
	fieldLower := strings.ToLower(fieldName)
	for _, sensitive := range []string{"password", "secret", "apikey", "token", "credential"} {
		if strings.Contains(fieldLower, sensitive) {
			return true
		}
	}
	return false
}

func (sc *DefaultSecurityChecker) isPlaceholder(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "changeme", "change-me", "password", "123456", "secret":
		return true
	}
	return false
}
