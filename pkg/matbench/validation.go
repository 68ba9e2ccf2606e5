package matbench

import (
	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())
