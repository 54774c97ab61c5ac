package service

import (
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("totp_code", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if len(value) != 6 {
				return false
			}
			for _, char := range value {
				if !unicode.IsDigit(char) {
					return false
				}
			}
			return true
		})
	})
}
