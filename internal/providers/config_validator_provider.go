package providers

import (
	"errors"

	"github.com/gookit/validate"

	"olga/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Storage.Driver == "postgres" && cv.conf.Storage.DatabaseUrl == "" {
		return errors.New("storage.databaseUrl is required for the postgres driver")
	}
	return nil
}
