package oracleraw

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds everything Open needs. It is expected in the following YAML format:
/*
name: "reporting"
environment: "dev"
descriptor: "(DESCRIPTION = (ADDRESS = (PROTOCOL = TCP)(HOST = localhost)(PORT = 1521)) (CONNECT_DATA = (SERVER = DEDICATED) (SID = TEST)))"
schema: scott
password: tiger
prefetch: 5000
pool:
  min: 1
  increment: 1
  max: 4
  maxLifetime: 1h
defaults:
  itemFormat: hash
  amount: all_rows
  metadata: all
options:
  ssl: "false"
logging:
  level: info
*/
type Config struct {
	Name        string            `mapstructure:"name"`
	Environment string            `mapstructure:"environment"`
	Descriptor  string            `mapstructure:"descriptor" validate:"required"`
	Schema      string            `mapstructure:"schema" validate:"required"`
	Password    string            `mapstructure:"password"`
	Prefetch    int               `mapstructure:"prefetch" validate:"gte=0"`
	Pool        PoolConfig        `mapstructure:"pool"`
	Defaults    Options           `mapstructure:"defaults"`
	Options     map[string]string `mapstructure:"options"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error disabled off"`
}

const envPrefix = "ORACLERAW"

var validate = validator.New()

// ReadConfiguration reads the configuration from the YAML file and the
// environment. Environment variables take precedence; they carry the
// ORACLERAW_ prefix and use underscores for dots (ORACLERAW_POOL_MAX
// overrides pool.max).
func ReadConfiguration(configFilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFilePath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	if err := bindEnvs(v, reflect.TypeOf(Config{}), ""); err != nil {
		return nil, pkgerrors.Wrap(err, "binding environment variables")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, pkgerrors.Wrapf(err, "reading configuration %s", configFilePath)
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, pkgerrors.Wrap(err, "unable to decode into config struct")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs registers every mapstructure key of t with viper, so a key
// missing from the file can still come from the environment. Map fields
// (options) are only read from the file.
func bindEnvs(v *viper.Viper, t reflect.Type, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			if err := bindEnvs(v, field.Type, key); err != nil {
				return err
			}
		case reflect.Map:
			continue
		default:
			if err := v.BindEnv(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks required fields and the allowed option values
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return InvalidConfigErr(err.Error())
	}

	failed := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		failed = append(failed, fe.StructNamespace()+":"+fe.Tag())
	}
	return InvalidConfigErr(strings.Join(failed, ", "))
}
