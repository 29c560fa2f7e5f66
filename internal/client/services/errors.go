package services

import "errors"

var ErrDrainInProgress = errors.New("drain already in progress")
