package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParsePolicy loads a policy file from disk, layers it over the built-in
// defaults, validates the result, and returns the effective policy.
func ParsePolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shiperrors.NewParseError(path, 0, err)
	}

	// Decoding over the defaults means the file only has to mention the
	// fields it wants to override. Unknown keys are rejected: a typo'd key
	// silently falling back to a default would make the run write state the
	// operator never declared.
	policy := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(policy); err != nil && !errors.Is(err, io.EOF) {
		return nil, shiperrors.NewParseError(path, extractLine(err), err)
	}

	if err := Validate(policy); err != nil {
		return nil, err
	}

	return policy, nil
}

// Validate checks a policy against its declared constraints.
func Validate(policy *Policy) error {
	if policy == nil {
		return shiperrors.NewInputError("policy", "policy is nil", nil)
	}

	err := validatorInstance().Struct(policy)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return shiperrors.NewInputError("policy", err.Error(), err)
	}

	first := fieldErrs[0]
	field := strings.TrimPrefix(first.Namespace(), "Policy.")
	message := fmt.Sprintf("failed %q constraint", first.Tag())
	return shiperrors.NewInputError(field, message, err)
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
