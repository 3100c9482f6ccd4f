package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/mdp/qrterminal/v3"
	"github.com/skip2/go-qrcode"
)

// ErrEncode wraps failures from the QR encoder, e.g. content that does not
// fit in any symbol version at the chosen recovery level.
var ErrEncode = errors.New("qr encode failed")

// Modules encodes content at level and returns the module matrix without a
// quiet zone, indexed [row][col], true for dark modules.
func Modules(content string, level qrcode.RecoveryLevel) ([][]bool, error) {
	q, err := qrcode.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

// Terminal writes content as a half-block QR symbol to w.
func Terminal(content, errorCorrection string, w io.Writer) {
	level := qrterminal.M
	switch RecoveryLevel(errorCorrection) {
	case qrcode.Low:
		level = qrterminal.L
	case qrcode.High, qrcode.Highest:
		level = qrterminal.H
	}
	qrterminal.GenerateHalfBlock(content, level, w)
}
