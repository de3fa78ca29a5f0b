// Package cfgloader provides a simple way to load and validate configuration at the start of an application.
package cfgloader

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"slices"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/datamask/logger"
	"github.com/rise-and-shine/datamask/val"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

const (
	CodeInvalidEnvironment = "INVALID_ENVIRONMENT"
	CodeConfigNotFound     = "CONFIG_NOT_FOUND"
	CodeInvalidConfig      = "INVALID_CONFIG"
)

// MustLoad loads and validates configuration from a YAML file based on the ENVIRONMENT variable.
// The files must be named in the format ${ENVIRONMENT}.yaml and located in the config directory at the root of the project.
// Any error is fatal.
//
// The configuration struct should use `yaml` struct tags to map fields to the YAML file structure.
//
// Default values for configuration fields can be set using the `default` struct tag. These values are applied before validation
// if the corresponding fields are not explicitly defined in the YAML file.
//
// Validations are done using the go-playground/validator package.
// See https://pkg.go.dev/github.com/go-playground/validator/v10 for more information.
//
// Example:
//
//	type Config struct {
//	    Host        string `yaml:"host" validate:"required"`  // Maps to the "host" field in the YAML file, required
//	    Port        int    `yaml:"port" default:"8080"`       // Maps to the "port" field in the YAML file, defaults to 8080
//	    Password    string `yaml:"password" mask:"true"`      // Printed masked
//	}
//
// If the YAML file does not define these fields, the default values will be applied.
func MustLoad[T any](opts ...Option) T {
	env, err := defineEnvironment()
	if err != nil {
		logger.Fatalx(err)
	}

	config, err := Load[T](buildConfigPath(env), opts...)
	if err != nil {
		logger.Fatalx(err)
	}
	return config
}

// Load reads the YAML file at path into a T, expanding ${VAR} references from the
// environment (and a .env file, if present), applying defaults and validating the result.
// References to unset variables and any other '$' text are kept verbatim.
func Load[T any](path string, opts ...Option) (T, error) {
	o := buildOptions(opts)

	var config T
	if reflect.TypeOf(config) == nil || reflect.TypeOf(config).Kind() == reflect.Pointer {
		return config, errx.New(
			"[cfgloader]: type parameter must be a non-pointer struct",
			errx.WithCode(CodeInvalidConfig),
			errx.WithType(errx.T_Internal),
		)
	}

	loadEnvFiles(o.envFiles)

	data, err := readConfigFile(path)
	if err != nil {
		return config, err
	}

	data = replaceEnvVars(data)

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errx.New(
			fmt.Sprintf("[cfgloader]: failed to unmarshal config file %s: %v", path, err),
			errx.WithCode(CodeInvalidConfig),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"path": path}),
		)
	}

	if err = defaults.Set(&config); err != nil {
		return config, errx.New(
			fmt.Sprintf("[cfgloader]: failed to set default values for config: %v", err),
			errx.WithCode(CodeInvalidConfig),
			errx.WithType(errx.T_Internal),
		)
	}

	if err = val.ValidateSchema(config); err != nil {
		return config, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	if !o.silent {
		Print(o.logger, config)
	}

	return config, nil
}

func defineEnvironment() (string, error) {
	env := os.Getenv("ENVIRONMENT")
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return "", errx.New(
			"[cfgloader]: ENVIRONMENT env variable is not set or invalid. Choices are: production, staging, dev, local, test",
			errx.WithCode(CodeInvalidEnvironment),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"environment": env}),
		)
	}
	return env, nil
}

func buildConfigPath(env string) string {
	return fmt.Sprintf("./config/%s.yaml", env)
}

func readConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errx.New(
			fmt.Sprintf("[cfgloader]: config file not found in the path %s", path),
			errx.WithCode(CodeConfigNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	return data, nil
}

func loadEnvFiles(files []string) {
	if len(files) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

//nolint:gochecknoglobals // compiled once
var envVarRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// replaceEnvVars substitutes ${VAR} with the value of a set environment variable.
// Other '$' text, such as regex group references or unset names, is left as is.
func replaceEnvVars(data []byte) []byte {
	return envVarRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		if v, ok := os.LookupEnv(string(ref[2 : len(ref)-1])); ok {
			return []byte(v)
		}
		return ref
	})
}
