package osgrid

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Plausible extent of the National Grid, in metres.
const (
	MaxEasting  = 700000.0
	MaxNorthing = 1300000.0
)

var (
	ErrInvalidGridRef = errors.New("invalid grid reference")
	ErrOddDigits      = fmt.Errorf("%w: easting and northing need the same number of digits", ErrInvalidGridRef)
	ErrOutOfRange     = fmt.Errorf("%w: outside the national grid", ErrInvalidGridRef)
	ErrLetterI        = fmt.Errorf("%w: letter I is never used", ErrInvalidGridRef)
	ErrInvalidDigits  = errors.New("digits per axis must be between 0 and 5")
)

var gridRefPattern = regexp.MustCompile(`^[A-Z]{2}\d+$`)

// Ref is a parsed grid reference. Easting and Northing are the south-west
// corner of the referenced square; Precision is its side length in metres.
type Ref struct {
	Text      string  `json:"text"`
	Easting   float64 `json:"easting"`
	Northing  float64 `json:"northing"`
	Precision float64 `json:"precision_meters"`
}

// Digits returns the number of digits per axis carried by the reference.
func (r Ref) Digits() int {
	return (len(r.Text) - 2) / 2
}

// FormatGridRef formats a position as a 1 km grid reference, e.g. "TQ3080".
func FormatGridRef(easting, northing float64) string {
	s, _ := FormatGridRefDigits(easting, northing, 2)
	return s
}

// FormatGridRefDigits formats a position with the given number of digits per
// axis: 0 gives the 100 km square letters only, 5 gives 1 m precision.
func FormatGridRefDigits(easting, northing float64, digits int) (string, error) {
	if digits < 0 || digits > 5 {
		return "", ErrInvalidDigits
	}

	letters := squareLetters(easting, northing)
	if digits == 0 {
		return letters, nil
	}

	unit := math.Pow10(5 - digits)
	e := math.Floor(math.Mod(easting, 100000) / unit)
	n := math.Floor(math.Mod(northing, 100000) / unit)

	return fmt.Sprintf("%s%0*d%0*d", letters, digits, int(e), digits, int(n)), nil
}

// squareLetters derives the two-letter 100 km square name. The grid uses 5×5
// blocks of 5×5 squares lettered A–Z without I, with the false origin in square S.
func squareLetters(easting, northing float64) string {
	e100 := int(math.Floor(easting / 100000))
	n100 := int(math.Floor(northing / 100000))

	l1 := (19 - n100) - (19-n100)%5 + int(math.Floor(float64(e100+10)/5))
	l2 := (19-n100)*5%25 + e100%5

	if l1 > 7 {
		l1++
	}
	if l2 > 7 {
		l2++
	}

	return string([]rune{rune('A' + l1), rune('A' + l2)})
}

// ParseGridRef parses a reference such as "TQ 30 80" or "su3715". Whitespace
// and case are ignored. It returns an error wrapping ErrInvalidGridRef for any
// malformed or out-of-range input and never panics.
func ParseGridRef(text string) (Ref, error) {
	clean := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text))

	if !gridRefPattern.MatchString(clean) {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidGridRef, text)
	}

	letters, numbers := clean[:2], clean[2:]
	if len(numbers)%2 != 0 {
		return Ref{}, ErrOddDigits
	}
	if strings.ContainsRune(letters, 'I') {
		return Ref{}, ErrLetterI
	}

	l1 := int(letters[0] - 'A')
	l2 := int(letters[1] - 'A')
	if l1 > 7 {
		l1--
	}
	if l2 > 7 {
		l2--
	}

	e100 := ((l1-2)%5)*5 + l2%5
	n100 := (19 - (l1/5)*5) - l2/5

	half := len(numbers) / 2
	unit := math.Pow10(5 - half)

	e, err := strconv.ParseFloat(numbers[:half], 64)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %v", ErrInvalidGridRef, err)
	}
	n, err := strconv.ParseFloat(numbers[half:], 64)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %v", ErrInvalidGridRef, err)
	}

	if half > 5 {
		// Sub-metre references: divide rather than multiply by a fractional unit.
		e /= math.Pow10(half - 5)
		n /= math.Pow10(half - 5)
	} else {
		e *= unit
		n *= unit
	}

	easting := float64(e100)*100000 + e
	northing := float64(n100)*100000 + n

	if easting < 0 || easting > MaxEasting || northing < 0 || northing > MaxNorthing {
		return Ref{}, ErrOutOfRange
	}

	return Ref{Text: clean, Easting: easting, Northing: northing, Precision: unit}, nil
}

// Hectad reduces a 1 km (or finer) reference to its 10 km square by keeping
// the letters and the leading digit of each axis: "TQ3080" → "TQ38".
// Anything that is not letters plus an even digit count is returned unchanged.
func Hectad(ref string) string {
	if len(ref) < 4 || len(ref)%2 != 0 {
		return ref
	}
	half := (len(ref) - 2) / 2
	return ref[:3] + ref[2+half:3+half]
}
