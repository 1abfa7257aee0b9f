package viewsynth

import "errors"

var (
	ErrInvalidConfig = errors.New("viewsynth: invalid configuration")
	ErrInvalidView   = errors.New("viewsynth: invalid base view")
	ErrInvalidModel  = errors.New("viewsynth: invalid model")
	ErrPictureSize   = errors.New("viewsynth: picture does not match the configuration")
	ErrNotReady      = errors.New("viewsynth: model used before its views are set")
)
