package validators

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register adds the phone, date and clock tags to gin's validator.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}
		registerErr = errors.Join(
			v.RegisterValidation("phone", isPhone),
			v.RegisterValidation("date", isDate),
			v.RegisterValidation("clock", isClock),
		)
	})
	return registerErr
}

func isPhone(fl validator.FieldLevel) bool {
	return reservation.ValidPhone(fl.Field().String())
}

func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(timezone.DateLayout, fl.Field().String())
	return err == nil
}

func isClock(fl validator.FieldLevel) bool {
	_, err := time.Parse(timezone.SlotLayout, fl.Field().String())
	return err == nil
}
