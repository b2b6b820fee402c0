package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	volumeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,202}$`)
	apiVersionPattern = regexp.MustCompile(`^1\.\d{1,3}$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("volume_name", func(fl validator.FieldLevel) bool {
			return volumeNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("api_version", func(fl validator.FieldLevel) bool {
			return apiVersionPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateDocument validates the connection and the resource.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return cdoterrors.NewConfigurationError("document", "document is nil", nil)
	}

	if err := validatorInstance().Struct(doc.Connection); err != nil {
		return convertValidationError("connection", err)
	}
	return ValidateResource(doc.Resource)
}

// ValidateResource checks required fields, the state vocabulary of the kind,
// and rejects attributes that belong to the other kind.
func ValidateResource(res Resource) error {
	if err := validatorInstance().Struct(res); err != nil {
		return convertValidationError("resource", err)
	}

	states := kindStates[res.Kind]
	if !slices.Contains(states, res.State) {
		return cdoterrors.NewConfigurationError(
			"resource.state",
			fmt.Sprintf("state %q is not valid for kind %s (expected one of: %s)", res.State, res.Kind, strings.Join(states, ", ")),
			nil,
		)
	}

	switch res.Kind {
	case KindClone:
		if res.JunctionPath != "" {
			return foreignField("junction_path", res.Kind)
		}
	case KindMount:
		if res.ParentVolume != "" {
			return foreignField("parent_volume", res.Kind)
		}
		if res.SnapshotName != "" {
			return foreignField("snapshot_name", res.Kind)
		}
		if res.Online != nil {
			return foreignField("online", res.Kind)
		}
	}

	return nil
}

func foreignField(field, kind string) error {
	return cdoterrors.NewConfigurationError("resource."+field, fmt.Sprintf("not supported for kind %s", kind), nil)
}

func convertValidationError(root string, err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(root, ve)
		msg := fmt.Sprintf("failed validation for tag '%s'", ve.Tag())
		switch ve.Tag() {
		case "required":
			msg = "is required"
		case "required_if":
			msg = "is required when state is present"
		}
		return cdoterrors.NewConfigurationError(field, msg, err)
	}

	return cdoterrors.NewConfigurationError(root, err.Error(), err)
}

// yamlishFieldName replaces the struct name with root, keeping the yaml key path.
func yamlishFieldName(root string, fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return root + "." + rest
	}
	return root + "." + fe.Field()
}
