package service

import "errors"

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrCartNotFound          = errors.New("cart not found")
	ErrDiscountPeriodInvalid = errors.New("discount period invalid")
	ErrCartLineInvalid       = errors.New("cart line invalid")
	ErrUpstreamUnavailable   = errors.New("upstream unavailable")
	ErrStorageFailure        = errors.New("storage failure")
	ErrMisconfigured         = errors.New("service misconfigured")
)
