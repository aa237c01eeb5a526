package catalog

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength        = 150
	MaxDescriptionLength = 250
	MaxPictureBytes      = 5 << 20
)

var (
	ErrInvalidEAN          = errors.New("EAN must be exactly 13 digits")
	ErrInvalidPrice        = errors.New("price must be a valid positive number")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = fmt.Errorf("name must be at most %d characters", MaxNameLength)
	ErrDescriptionTooLong  = fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	ErrInvalidSellingPlace = errors.New("selling place must be event or store")
	ErrNotAnImage          = errors.New("please select a valid image file")
	ErrPictureTooLarge     = errors.New("image size must be less than 5MB")
)

var eanPattern = regexp.MustCompile(`^\d{13}$`)

// ValidateEAN checks for exactly 13 ASCII digits.
func ValidateEAN(ean string) error {
	if !eanPattern.MatchString(ean) {
		return ErrInvalidEAN
	}
	return nil
}

// ParsePrice parses a non-negative decimal price.
func ParsePrice(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || ValidatePrice(v) != nil {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// ValidateName requires a non-blank name within the length limit.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ValidateDescription enforces the description length limit.
func ValidateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// ValidatePrice rejects negative prices.
func ValidatePrice(price float64) error {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateSellingPlace rejects unknown selling places.
func ValidateSellingPlace(p SellingPlace) error {
	if !p.Valid() {
		return ErrInvalidSellingPlace
	}
	return nil
}

// ValidatePicture checks the size limit and that the bytes look like an image.
func ValidatePicture(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if len(data) > MaxPictureBytes {
		return ErrPictureTooLarge
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return ErrNotAnImage
	}
	return nil
}

// Validate checks every field of a create request.
func (in CreateInput) Validate() error {
	checks := []error{
		ValidateName(in.Name),
		ValidateEAN(in.EAN),
		ValidatePrice(in.Price),
		ValidateDescription(in.Description),
		ValidateSellingPlace(in.SellingPlace),
		ValidatePicture(in.Picture),
	}
	return errors.Join(checks...)
}

// Validate checks the fields that are set.
func (u UpdateInput) Validate() error {
	var checks []error
	if u.Name != nil {
		checks = append(checks, ValidateName(*u.Name))
	}
	if u.EAN != nil {
		checks = append(checks, ValidateEAN(*u.EAN))
	}
	if u.Price != nil {
		checks = append(checks, ValidatePrice(*u.Price))
	}
	if u.Description != nil {
		checks = append(checks, ValidateDescription(*u.Description))
	}
	if u.SellingPlace != nil {
		checks = append(checks, ValidateSellingPlace(*u.SellingPlace))
	}
	checks = append(checks, ValidatePicture(u.Picture))
	return errors.Join(checks...)
}

// ReadPicture loads an image file for upload.
func ReadPicture(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read picture: %w", err)
	}
	if info.Size() > MaxPictureBytes {
		return nil, ErrPictureTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read picture: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotAnImage
	}
	if err := ValidatePicture(data); err != nil {
		return nil, err
	}
	return data, nil
}
