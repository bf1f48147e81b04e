package app

import "github.com/rotisserie/eris"

var (
	ErrNotFound             = eris.New("not found")
	ErrInvalidRequest       = eris.New("invalid request")
	ErrNoCandidates         = eris.New("no candidate places found, please refine the address")
	ErrGeocodeRequestFailed = eris.New("geocoding request failed")
	ErrNoGeocoder           = eris.New("no geocoding provider configured")
)
