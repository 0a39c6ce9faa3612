package config

import (
	"net"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rtkit/nlmgr/internal/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("hostport_or_empty", validateHostPortOrEmpty); err != nil {
		panic(err)
	}

	// Report field names by their "toml" tag so validation errors match the
	// config file the user actually wrote.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the configuration against its struct tags and returns a
// CONFIG_ERROR describing the first group of violations.
func (c *Config) Validate() error {
	var sb strings.Builder

	for section, v := range map[string]interface{}{
		"netlink": c.Netlink,
		"trace":   c.Trace,
		"api":     c.API,
	} {
		if v == nil || reflect.ValueOf(v).IsNil() {
			continue
		}
		if err := validate.Struct(v); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return errors.NewConfigError("config validation failed", err)
			}
			for _, fe := range verrs {
				sb.WriteString(section + "." + fe.Field() + ": failed '" + fe.Tag() + "' check; ")
			}
		}
	}

	if sb.Len() > 0 {
		return errors.NewConfigError(strings.TrimSuffix(sb.String(), "; "), nil)
	}
	return nil
}

// Custom validator: host:port or empty.
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}
