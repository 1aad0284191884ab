package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/mbolis/quick-contract/model"
)

const maxSignatureSize = 1 << 20

// readSignature loads an image file as a data URI signature.
func readSignature(path string) (model.SignatureValue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return encodeSignature(data)
}

func encodeSignature(data []byte) (model.SignatureValue, error) {
	if len(data) > maxSignatureSize {
		return "", fmt.Errorf("%w: signature image larger than %d bytes", model.ErrInvalid, maxSignatureSize)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: signature must be an image, got %s", model.ErrInvalid, mime)
	}
	return model.SignatureValue("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}

func validSignatureFile(path string) error {
	if path == "" {
		return nil
	}
	_, err := readSignature(path)
	return err
}
