package snapshot

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
)

// EmptyFingerprint identifies a dataset without records
const EmptyFingerprint = "empty"

// FingerprintMode selects how dataset fingerprints are computed
type FingerprintMode string

const (
	// ModeBoundary uses the record count and the first and last keys.
	// Interior edits with unchanged boundaries go unnoticed.
	ModeBoundary FingerprintMode = "boundary"
	// ModeContent hashes the full encoded dataset.
	ModeContent FingerprintMode = "content"
)

// Fingerprint summarizes an ordered key sequence as "<count>:<first>:<last>"
func Fingerprint(keys []string) string {
	if len(keys) == 0 {
		return EmptyFingerprint
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(keys)))
	b.WriteByte(':')
	b.WriteString(keys[0])
	b.WriteByte(':')
	b.WriteString(keys[len(keys)-1])
	return b.String()
}

// ContentFingerprint hashes the JSON encoding of v. Empty slices map to EmptyFingerprint.
func ContentFingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "[]" || string(data) == "null" {
		return EmptyFingerprint, nil
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

// Fingerprinter computes dataset fingerprints according to its mode
type Fingerprinter struct {
	mode FingerprintMode
}

// NewFingerprinter returns a fingerprinter; unknown modes fall back to ModeBoundary
func NewFingerprinter(mode FingerprintMode) Fingerprinter {
	if mode != ModeContent {
		mode = ModeBoundary
	}
	return Fingerprinter{mode: mode}
}

// Mode returns the effective mode
func (f Fingerprinter) Mode() FingerprintMode { return f.mode }

// Products fingerprints a product list keyed by SKU
func (f Fingerprinter) Products(products []domain.Product) string {
	if f.mode == ModeContent {
		if fp, err := ContentFingerprint(products); err == nil {
			return fp
		}
	}
	keys := make([]string, len(products))
	for i, p := range products {
		keys[i] = p.SKU
	}
	return Fingerprint(keys)
}

// Forecast fingerprints forecast records keyed by SKU id
func (f Fingerprinter) Forecast(records []domain.ForecastRecord) string {
	if f.mode == ModeContent {
		if fp, err := ContentFingerprint(records); err == nil {
			return fp
		}
	}
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.SKUID
	}
	return Fingerprint(keys)
}
