// Package phash provides the perceptual-hash capability backed by
// goimagehash's DCT perception hash.
//
// The extra decoders from golang.org/x/image are registered so bmp, tiff
// and webp files fingerprint alongside the stdlib jpeg/png/gif formats.
package phash

import (
	"image"
	"os"

	"github.com/corona10/goimagehash"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Provider computes 64-bit DCT perception hashes for image files.
// The zero value is ready to use.
type Provider struct{}

// New returns a Provider.
func New() *Provider { return &Provider{} }

// Fingerprint decodes the image at path and returns its perception hash.
func (p *Provider) Fingerprint(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, err
	}
	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, err
	}
	return h.GetHash(), nil
}
