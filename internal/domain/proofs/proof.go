package proofs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"github.com/gabriel-vasile/mimetype"
	"strings"
)

const MaxSize = 5 * 1024 * 1024

var AllowedContentTypes = []string{"image/png", "image/jpeg", "image/webp"}

var (
	ErrMissingFields = errors.New("Missing fields")
	ErrEncoding      = errors.New("Invalid image data")
	ErrTooLarge      = errors.New("Image too large (max 5MB)")
	ErrType          = errors.New("Only PNG, JPEG, or WEBP images are allowed")
)

// Proof is a payment screenshot as it travels to the upload webhook.
// DataBase64 never carries a data-URI prefix.
type Proof struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	DataBase64  string `json:"dataBase64"`
}

// FromDataURL accepts both bare base64 and "data:image/png;base64,..." input,
// as browsers hand out the latter.
func FromDataURL(filename, contentType, data string) Proof {
	if strings.HasPrefix(data, "data:") {
		meta, payload, found := strings.Cut(data, "base64,")
		if found {
			data = payload
			if contentType == "" {
				contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";")
			}
		}
	}
	if filename == "" {
		filename = "upload.png"
	}
	return Proof{Filename: filename, ContentType: contentType, DataBase64: data}
}

// Check enforces the upload policy without any network call: required
// fields, decodable payload, size cap, and an allowed type both as declared
// and as sniffed from the bytes.
func (p Proof) Check() error {
	if p.Filename == "" || p.ContentType == "" || p.DataBase64 == "" {
		return ErrMissingFields
	}

	// cheap upper bound before decoding
	if base64.StdEncoding.DecodedLen(len(p.DataBase64)) > MaxSize+2 {
		return ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(p.DataBase64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if len(data) > MaxSize {
		return ErrTooLarge
	}

	if !allowed(p.ContentType) {
		return ErrType
	}
	if detected := mimetype.Detect(data); !allowed(detected.String()) {
		return fmt.Errorf("%w: content looks like %s", ErrType, detected.String())
	}

	return nil
}

// IsPolicyError reports whether err is a local rejection rather than a
// transport failure.
func IsPolicyError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrEncoding) ||
		errors.Is(err, ErrTooLarge) ||
		errors.Is(err, ErrType)
}

// PolicyMessage is the user-facing text for a policy rejection.
func PolicyMessage(err error) string {
	for _, sentinel := range []error{ErrMissingFields, ErrEncoding, ErrTooLarge, ErrType} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func allowed(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	for _, t := range AllowedContentTypes {
		if t == base {
			return true
		}
	}
	return false
}
