// Package media holds the bitmaps built into the binary and the BMP codec used for everything drawn
// from bytes, cover art included.
package media

import (
	"bytes"
	"embed"
	"errors"
	"image"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
)

//go:embed media/*/*.bmp
var imgs embed.FS

// LoadImage loads the specified image of the specified type.
func LoadImage(typ Type, name string) (image.Image, error) {
	r, err := imgs.Open("media/" + string(typ) + "/" + name + ".bmp")
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fi, err := r.Stat()
	if err != nil {
		return nil, err
	}

	if fi.IsDir() {
		return nil, errors.New("cannot open directory")
	}

	w, h := typ.Size()
	if w == 0 || h == 0 {
		return nil, errors.New("invalid media type")
	}

	img, err := bmp.Decode(r)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if w != b.Dx() || h != b.Dy() {
		return nil, errors.New("invalid image size for type " + string(typ))
	}

	return img, nil
}

// Names lists the images available for typ, sorted.
func Names(typ Type) ([]string, error) {
	entries, err := fs.ReadDir(imgs, "media/"+string(typ))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".bmp" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".bmp"))
	}
	sort.Strings(names)
	return names, nil
}

// Decode reads a BMP from memory.
func Decode(raw []byte) (image.Image, error) {
	return bmp.Decode(bytes.NewReader(raw))
}

// Encode writes img as an uncompressed BMP, the format Decode reads back.
func Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}
