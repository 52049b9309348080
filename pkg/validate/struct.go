package validate

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Struct returns a Validator that decodes raw input into T and checks it
// against go-playground/validator struct tags. The validated value is the
// populated T, so downstream consumers get a typed struct instead of an
// untyped map.
//
//	type UserParams struct {
//	    ID   int    `json:"id" validate:"required,gt=0"`
//	    Slug string `json:"slug" validate:"omitempty,lowercase"`
//	}
//	v := validate.Struct[UserParams]()
func Struct[T any]() Validator {
	check := validator.New(validator.WithRequiredStructEnabled())

	return Func(func(raw any) Outcome {
		target, ok := raw.(T)
		if !ok {
			data, err := json.Marshal(raw)
			if err != nil {
				return Invalidf(nil, "cannot decode input: %v", err)
			}
			if err := json.Unmarshal(data, &target); err != nil {
				return Invalidf(nil, "cannot decode input: %v", err)
			}
		}

		if err := check.Struct(target); err != nil {
			ferrs, ok := err.(validator.ValidationErrors)
			if !ok {
				// InvalidValidationError: T is not a struct. That is a
				// declaration bug, not bad input.
				panic(err)
			}
			issues := make([]Issue, 0, len(ferrs))
			for _, fe := range ferrs {
				issues = append(issues, Issue{
					Path:    []string{fe.Field()},
					Message: "failed " + fe.Tag() + " validation",
				})
			}
			return Invalid(issues...)
		}

		return Valid(target)
	})
}
