package config

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	regionPattern = regexp.MustCompile(`^[a-z]{2}(?:-[a-z]+)+-\d$`)
)

// validatorInstance configures and returns the shared validator instance
// used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("aws_region", func(fl validator.FieldLevel) bool {
			return regionPattern.MatchString(fl.Field().String())
		})

		// Workflow files live under .github/workflows/ and are YAML.
		_ = v.RegisterValidation("workflow_path", func(fl validator.FieldLevel) bool {
			path := fl.Field().String()
			if !strings.HasPrefix(path, ".github/workflows/") {
				return false
			}
			return strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml")
		})

		validateInst = v
	})

	return validateInst
}
