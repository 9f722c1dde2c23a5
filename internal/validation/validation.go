package validation

import (
	"errors"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validatorv10.New()

// BindJSON parses the request body into out and runs struct validation.
// The returned error message is safe to surface to the caller.
func BindJSON(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid request body")
	}
	return Struct(out)
}

// Struct validates any tagged struct.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validatorv10.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("field %q failed on the %q rule", fe.Field(), fe.Tag())
	}
	return err
}
