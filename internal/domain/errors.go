package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrRecordExists          = errors.New("generation record already exists for this period")
	ErrRecordNotFound        = errors.New("generation record not found")
	ErrPlantNotFound         = errors.New("plant not found")
	ErrTariffNotFound        = errors.New("operator tariff not found")
	ErrExportDataUnavailable = errors.New("exported-kWh quantity unavailable for this period")
	ErrInvalidGeneration     = errors.New("generation value must be greater than zero")
)
