package io

import (
	"errors"

	"github.com/ezrec/simpleton/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageShort = errors.New(f("image truncated"))
	ErrImageLarge = errors.New(f("image larger than memory"))
)
