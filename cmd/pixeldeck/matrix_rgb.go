//go:build rgbmatrix

package main

import (
	rgbmatrix "github.com/mcuadros/go-rpi-rgb-led-matrix"

	"github.com/ajanata/pixeldeck"
	"github.com/ajanata/pixeldeck/internal/display"
)

func openMatrix(cfg pixeldeck.DisplayConfig) (display.Matrix, error) {
	hw := rgbmatrix.DefaultConfig
	hw.Rows = cfg.Rows
	hw.Cols = cfg.Cols
	hw.ChainLength = cfg.Chain
	hw.Parallel = cfg.Parallel
	hw.Brightness = cfg.Brightness
	hw.HardwareMapping = cfg.HardwareMapping
	return rgbmatrix.NewRGBLedMatrix(&hw)
}
