package rfm

import "errors"

var (
	ErrNoOrders        = errors.New("rfm: no order facts")
	ErrEmptyPopulation = errors.New("rfm: empty customer population")
	ErrUnknownCustomer = errors.New("rfm: customer not in scoring population")
	ErrInvalidPattern  = errors.New("rfm: invalid rule pattern")
	ErrInvalidScore    = errors.New("rfm: invalid score key")
)
