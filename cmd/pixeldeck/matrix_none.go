//go:build !rgbmatrix

package main

import (
	"errors"

	"github.com/ajanata/pixeldeck"
	"github.com/ajanata/pixeldeck/internal/display"
)

func openMatrix(pixeldeck.DisplayConfig) (display.Matrix, error) {
	return nil, errors.New("built without LED matrix support, rebuild with -tags rgbmatrix")
}
